// Package risk implements the STAR-methodology classification engine: a pure
// mapping from four ordinal assessment inputs to two banded scores (impacto
// and matriz de risco). The engine has no side effects and is re-derivable at
// any time from the same inputs.
package risk

import (
	"fmt"

	dErrors "vigirisco/pkg/domain-errors"
)

// ImpactoBand is the qualitative band assigned to the impacto score.
type ImpactoBand string

const (
	ImpactoInsignificante ImpactoBand = "Insignificante"
	ImpactoBaixo          ImpactoBand = "Baixo"
	ImpactoMedio          ImpactoBand = "Médio"
	ImpactoAlto           ImpactoBand = "Alto"
	ImpactoCritico        ImpactoBand = "Crítico"
)

// MatrizBand is the qualitative band assigned to the matriz de risco score.
type MatrizBand string

const (
	MatrizMuitoBaixo MatrizBand = "Muito Baixo"
	MatrizBaixo      MatrizBand = "Baixo"
	MatrizModerado   MatrizBand = "Moderado"
	MatrizAlto       MatrizBand = "Alto"
	MatrizMuitoAlto  MatrizBand = "Muito Alto"
)

// Inputs are the four ordinal assessment factors, each in 1..5 with 0 meaning
// "not yet selected".
type Inputs struct {
	Gravidade               int `json:"gravidade"`
	Vulnerabilidade         int `json:"vulnerabilidade"`
	CapacidadeEnfrentamento int `json:"capacidade_enfrentamento"`
	Probabilidade           int `json:"probabilidade"`
}

// ImpactoScore is the computed impacto value with its band.
type ImpactoScore struct {
	Value float64     `json:"valor"`
	Band  ImpactoBand `json:"classe"`
}

// MatrizScore is the computed matriz de risco value with its band.
type MatrizScore struct {
	Value float64    `json:"valor"`
	Band  MatrizBand `json:"classe"`
}

// Result carries both computed scores.
type Result struct {
	Impacto ImpactoScore `json:"impacto"`
	Matriz  MatrizScore  `json:"matriz_risco"`
}

// unset is the identity result reported while any input is still 0.
var unset = Result{
	Impacto: ImpactoScore{Value: 0, Band: ImpactoInsignificante},
	Matriz:  MatrizScore{Value: 0, Band: MatrizMuitoBaixo},
}

// Classify maps the four ordinals to the impacto and matriz scores.
// Inputs outside 0..5 are rejected, never clamped. If any input is 0 the
// unset defaults are returned regardless of the other three.
func Classify(in Inputs) (Result, error) {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"gravidade", in.Gravidade},
		{"vulnerabilidade", in.Vulnerabilidade},
		{"capacidade_enfrentamento", in.CapacidadeEnfrentamento},
		{"probabilidade", in.Probabilidade},
	} {
		if f.value < 0 || f.value > 5 {
			return Result{}, dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("%s must be between 0 and 5, got %d", f.name, f.value))
		}
	}

	if in.Gravidade == 0 || in.Vulnerabilidade == 0 || in.CapacidadeEnfrentamento == 0 || in.Probabilidade == 0 {
		return unset, nil
	}

	impacto := float64(in.Gravidade+in.Vulnerabilidade+in.CapacidadeEnfrentamento) / 3
	matriz := impacto + float64(in.Probabilidade)

	return Result{
		Impacto: ImpactoScore{Value: impacto, Band: ClassifyImpacto(impacto)},
		Matriz:  MatrizScore{Value: matriz, Band: ClassifyMatriz(matriz)},
	}, nil
}

// ClassifyImpacto bands an impacto value. Band upper bounds are inclusive;
// a value exactly on a boundary resolves to the lower-severity band. Banding
// operates on the unrounded value; two-decimal formatting is presentation.
func ClassifyImpacto(value float64) ImpactoBand {
	switch {
	case value <= 1.66:
		return ImpactoInsignificante
	case value <= 2.33:
		return ImpactoBaixo
	case value <= 3.66:
		return ImpactoMedio
	case value <= 4.33:
		return ImpactoAlto
	default:
		return ImpactoCritico
	}
}

// ClassifyMatriz bands a matriz de risco value, same boundary rules as
// ClassifyImpacto.
func ClassifyMatriz(value float64) MatrizBand {
	switch {
	case value <= 2:
		return MatrizMuitoBaixo
	case value <= 4:
		return MatrizBaixo
	case value <= 6:
		return MatrizModerado
	case value <= 8:
		return MatrizAlto
	default:
		return MatrizMuitoAlto
	}
}
