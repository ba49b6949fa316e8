package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vigirisco/internal/monitor"
	"vigirisco/internal/risk"
)

// AssessmentStore persists risk assessments in the risco table.
type AssessmentStore struct {
	db *sql.DB
}

func NewAssessmentStore(db *sql.DB) *AssessmentStore {
	return &AssessmentStore{db: db}
}

func (s *AssessmentStore) Create(ctx context.Context, assessment *monitor.Assessment) (int64, error) {
	query := `
		INSERT INTO risco (
			id_rumor_evento, gravidade, vulnerabilidade, capacidade_enfrentamento,
			probabilidade, impacto_valor, impacto_classe, matriz_valor, matriz_classe,
			id_usuario_cadastro
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id_risco, data_cadastro
	`
	err := s.db.QueryRowContext(ctx, query,
		assessment.RumorID,
		assessment.Inputs.Gravidade,
		assessment.Inputs.Vulnerabilidade,
		assessment.Inputs.CapacidadeEnfrentamento,
		assessment.Inputs.Probabilidade,
		assessment.Result.Impacto.Value,
		string(assessment.Result.Impacto.Band),
		assessment.Result.Matriz.Value,
		string(assessment.Result.Matriz.Band),
		assessment.CriadoPor,
	).Scan(&assessment.ID, &assessment.CriadoEm)
	if err != nil {
		return 0, fmt.Errorf("insert assessment: %w", err)
	}
	return assessment.ID, nil
}

// ListByRumor returns the assessments of one rumor, newest first.
func (s *AssessmentStore) ListByRumor(ctx context.Context, rumorID int64) ([]monitor.Assessment, error) {
	query := `
		SELECT id_risco, id_rumor_evento, gravidade, vulnerabilidade,
		       capacidade_enfrentamento, probabilidade, impacto_valor,
		       impacto_classe, matriz_valor, matriz_classe,
		       id_usuario_cadastro, data_cadastro
		FROM risco
		WHERE id_rumor_evento = $1
		ORDER BY data_cadastro DESC
	`
	rows, err := s.db.QueryContext(ctx, query, rumorID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []monitor.Assessment
	for rows.Next() {
		var (
			a                       monitor.Assessment
			impactoBand, matrizBand string
		)
		err := rows.Scan(
			&a.ID,
			&a.RumorID,
			&a.Inputs.Gravidade,
			&a.Inputs.Vulnerabilidade,
			&a.Inputs.CapacidadeEnfrentamento,
			&a.Inputs.Probabilidade,
			&a.Result.Impacto.Value,
			&impactoBand,
			&a.Result.Matriz.Value,
			&matrizBand,
			&a.CriadoPor,
			&a.CriadoEm,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.Result.Impacto.Band = risk.ImpactoBand(impactoBand)
		a.Result.Matriz.Band = risk.MatrizBand(matrizBand)
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return assessments, nil
}
