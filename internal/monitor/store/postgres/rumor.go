// Package postgres persists surveillance records in the rumor_evento,
// comunicacao and risco tables.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vigirisco/internal/monitor"
	"vigirisco/pkg/platform/sentinel"
)

// RumorStore persists rumor/event records.
type RumorStore struct {
	db *sql.DB
}

func NewRumorStore(db *sql.DB) *RumorStore {
	return &RumorStore{db: db}
}

const rumorColumns = `
	id_rumor_evento, idu, titulo, descricao, local_evento, notificador_fonte,
	data_recebimento, veracidade, fundamento_veracidade, nivel_risco,
	id_pais, id_estado, id_cidade, id_natureza, id_icmra, id_status,
	id_usuario_cadastro, data_cadastro`

func (s *RumorStore) List(ctx context.Context) ([]monitor.Rumor, error) {
	query := `SELECT` + rumorColumns + ` FROM rumor_evento ORDER BY data_cadastro DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rumors: %w", err)
	}
	defer rows.Close()

	var rumors []monitor.Rumor
	for rows.Next() {
		rumor, err := scanRumor(rows)
		if err != nil {
			return nil, err
		}
		rumors = append(rumors, *rumor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rumors: %w", err)
	}
	return rumors, nil
}

func (s *RumorStore) Get(ctx context.Context, id int64) (*monitor.Rumor, error) {
	query := `SELECT` + rumorColumns + ` FROM rumor_evento WHERE id_rumor_evento = $1`
	rumor, err := scanRumor(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return rumor, err
}

// Create inserts the rumor and derives its IDU from the server-assigned
// creation timestamp and primary key, in one transaction.
func (s *RumorStore) Create(ctx context.Context, rumor *monitor.Rumor) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rumor insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT INTO rumor_evento (
			idu, titulo, descricao, local_evento, notificador_fonte,
			data_recebimento, veracidade, fundamento_veracidade, nivel_risco,
			id_pais, id_estado, id_cidade, id_natureza, id_icmra, id_status,
			id_usuario_cadastro
		)
		VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id_rumor_evento, data_cadastro
	`
	err = tx.QueryRowContext(ctx, insert,
		rumor.Titulo,
		rumor.Descricao,
		rumor.LocalEvento,
		rumor.NotificadorFonte,
		rumor.DataRecebimento,
		rumor.Veracidade,
		rumor.FundamentoVeracidade,
		rumor.NivelRisco,
		rumor.IDPais,
		rumor.IDEstado,
		rumor.IDCidade,
		rumor.IDNatureza,
		rumor.IDIcmra,
		rumor.IDStatus,
		rumor.CriadoPor,
	).Scan(&rumor.ID, &rumor.CriadoEm)
	if err != nil {
		return 0, fmt.Errorf("insert rumor: %w", err)
	}

	rumor.IDU = monitor.NewIDU(rumor.CriadoEm, rumor.ID)
	_, err = tx.ExecContext(ctx,
		`UPDATE rumor_evento SET idu = $1 WHERE id_rumor_evento = $2`,
		rumor.IDU, rumor.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("assign rumor idu: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rumor insert: %w", err)
	}
	return rumor.ID, nil
}

func (s *RumorStore) Update(ctx context.Context, rumor *monitor.Rumor) error {
	query := `
		UPDATE rumor_evento
		SET titulo = $1, descricao = $2, local_evento = $3, notificador_fonte = $4,
		    data_recebimento = $5, veracidade = $6, fundamento_veracidade = $7,
		    id_pais = $8, id_estado = $9, id_cidade = $10, id_natureza = $11,
		    id_icmra = $12, id_status = $13
		WHERE id_rumor_evento = $14
	`
	result, err := s.db.ExecContext(ctx, query,
		rumor.Titulo,
		rumor.Descricao,
		rumor.LocalEvento,
		rumor.NotificadorFonte,
		rumor.DataRecebimento,
		rumor.Veracidade,
		rumor.FundamentoVeracidade,
		rumor.IDPais,
		rumor.IDEstado,
		rumor.IDCidade,
		rumor.IDNatureza,
		rumor.IDIcmra,
		rumor.IDStatus,
		rumor.ID,
	)
	if err != nil {
		return fmt.Errorf("update rumor: %w", err)
	}
	return requireAffected(result)
}

func (s *RumorStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rumor_evento WHERE id_rumor_evento = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rumor: %w", err)
	}
	return requireAffected(result)
}

func (s *RumorStore) SetNivelRisco(ctx context.Context, id int64, nivel string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE rumor_evento SET nivel_risco = $1 WHERE id_rumor_evento = $2`, nivel, id)
	if err != nil {
		return fmt.Errorf("update rumor reporting band: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRumor(row rowScanner) (*monitor.Rumor, error) {
	var rumor monitor.Rumor
	err := row.Scan(
		&rumor.ID,
		&rumor.IDU,
		&rumor.Titulo,
		&rumor.Descricao,
		&rumor.LocalEvento,
		&rumor.NotificadorFonte,
		&rumor.DataRecebimento,
		&rumor.Veracidade,
		&rumor.FundamentoVeracidade,
		&rumor.NivelRisco,
		&rumor.IDPais,
		&rumor.IDEstado,
		&rumor.IDCidade,
		&rumor.IDNatureza,
		&rumor.IDIcmra,
		&rumor.IDStatus,
		&rumor.CriadoPor,
		&rumor.CriadoEm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan rumor: %w", err)
	}
	return &rumor, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
