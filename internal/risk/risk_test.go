package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vigirisco/pkg/domain-errors"
)

func TestClassifyImpactoBoundaries(t *testing.T) {
	// Upper bounds are closed: the exact boundary value resolves to the
	// lower-severity band.
	tests := []struct {
		value float64
		want  ImpactoBand
	}{
		{0, ImpactoInsignificante},
		{1.66, ImpactoInsignificante},
		{1.67, ImpactoBaixo},
		{2.33, ImpactoBaixo},
		{2.34, ImpactoMedio},
		{3.66, ImpactoMedio},
		{3.67, ImpactoAlto},
		{4.33, ImpactoAlto},
		{4.34, ImpactoCritico},
		{5, ImpactoCritico},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyImpacto(tt.value), "value %v", tt.value)
	}
}

func TestClassifyMatrizBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  MatrizBand
	}{
		{0, MatrizMuitoBaixo},
		{2, MatrizMuitoBaixo},
		{2.01, MatrizBaixo},
		{4, MatrizBaixo},
		{4.01, MatrizModerado},
		{6, MatrizModerado},
		{6.01, MatrizAlto},
		{8, MatrizAlto},
		{8.01, MatrizMuitoAlto},
		{10, MatrizMuitoAlto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMatriz(tt.value), "value %v", tt.value)
	}
}

func TestClassifyFixture(t *testing.T) {
	// gravidade=5, vulnerabilidade=4, capacidade=3, probabilidade=4:
	// impacto (5+4+3)/3 = 4.0 -> Alto, matriz 4.0+4 = 8.0 -> Alto.
	result, err := Classify(Inputs{
		Gravidade:               5,
		Vulnerabilidade:         4,
		CapacidadeEnfrentamento: 3,
		Probabilidade:           4,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, result.Impacto.Value, 1e-9)
	assert.Equal(t, ImpactoAlto, result.Impacto.Band)
	assert.InDelta(t, 8.0, result.Matriz.Value, 1e-9)
	assert.Equal(t, MatrizAlto, result.Matriz.Band)
}

func TestClassifyUnsetInputs(t *testing.T) {
	// Any single 0 input short-circuits to the unset defaults regardless of
	// the other three.
	cases := []Inputs{
		{Gravidade: 0, Vulnerabilidade: 5, CapacidadeEnfrentamento: 5, Probabilidade: 5},
		{Gravidade: 5, Vulnerabilidade: 0, CapacidadeEnfrentamento: 5, Probabilidade: 5},
		{Gravidade: 5, Vulnerabilidade: 5, CapacidadeEnfrentamento: 0, Probabilidade: 5},
		{Gravidade: 5, Vulnerabilidade: 5, CapacidadeEnfrentamento: 5, Probabilidade: 0},
		{},
	}
	for _, in := range cases {
		result, err := Classify(in)
		require.NoError(t, err)
		assert.Zero(t, result.Impacto.Value)
		assert.Equal(t, ImpactoInsignificante, result.Impacto.Band)
		assert.Zero(t, result.Matriz.Value)
		assert.Equal(t, MatrizMuitoBaixo, result.Matriz.Band)
	}
}

func TestClassifyRejectsOutOfRange(t *testing.T) {
	cases := []Inputs{
		{Gravidade: 6, Vulnerabilidade: 1, CapacidadeEnfrentamento: 1, Probabilidade: 1},
		{Gravidade: 1, Vulnerabilidade: -1, CapacidadeEnfrentamento: 1, Probabilidade: 1},
		{Gravidade: 1, Vulnerabilidade: 1, CapacidadeEnfrentamento: 99, Probabilidade: 1},
		{Gravidade: 1, Vulnerabilidade: 1, CapacidadeEnfrentamento: 1, Probabilidade: 6},
	}
	for _, in := range cases {
		_, err := Classify(in)
		require.Error(t, err, "inputs %+v", in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	in := Inputs{Gravidade: 2, Vulnerabilidade: 3, CapacidadeEnfrentamento: 4, Probabilidade: 1}
	first, err := Classify(in)
	require.NoError(t, err)
	second, err := Classify(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
