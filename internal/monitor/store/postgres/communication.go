package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vigirisco/internal/monitor"
	"vigirisco/pkg/platform/sentinel"
)

// CommunicationStore persists risk communication records.
type CommunicationStore struct {
	db *sql.DB
}

func NewCommunicationStore(db *sql.DB) *CommunicationStore {
	return &CommunicationStore{db: db}
}

const commColumns = `
	id_comunicacao, data_email, acao, cnpj, categoria, escopo, produto, lote,
	nome_empresa, resolucao, url, data_dou, motivo, email_notificador,
	id_usuario_cadastro, data_cadastro`

func (s *CommunicationStore) List(ctx context.Context) ([]monitor.Communication, error) {
	query := `SELECT` + commColumns + ` FROM comunicacao ORDER BY data_cadastro DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query communications: %w", err)
	}
	defer rows.Close()

	var comms []monitor.Communication
	for rows.Next() {
		comm, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		comms = append(comms, *comm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate communications: %w", err)
	}
	return comms, nil
}

func (s *CommunicationStore) Get(ctx context.Context, id int64) (*monitor.Communication, error) {
	query := `SELECT` + commColumns + ` FROM comunicacao WHERE id_comunicacao = $1`
	comm, err := scanCommunication(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return comm, err
}

func (s *CommunicationStore) Create(ctx context.Context, comm *monitor.Communication) (int64, error) {
	query := `
		INSERT INTO comunicacao (
			data_email, acao, cnpj, categoria, escopo, produto, lote,
			nome_empresa, resolucao, url, data_dou, motivo, email_notificador,
			id_usuario_cadastro
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id_comunicacao, data_cadastro
	`
	err := s.db.QueryRowContext(ctx, query,
		comm.DataEmail,
		comm.AcaoAdotada,
		comm.CNPJ,
		comm.Categoria,
		comm.Escopo,
		comm.Produto,
		comm.Lote,
		comm.NomeEmpresa,
		comm.Resolucao,
		comm.URL,
		comm.DataDou,
		comm.MotivoAcao,
		comm.EmailNotificador,
		comm.CriadoPor,
	).Scan(&comm.ID, &comm.CriadoEm)
	if err != nil {
		return 0, fmt.Errorf("insert communication: %w", err)
	}
	return comm.ID, nil
}

func (s *CommunicationStore) Update(ctx context.Context, comm *monitor.Communication) error {
	query := `
		UPDATE comunicacao
		SET data_email = $1, acao = $2, cnpj = $3, categoria = $4, escopo = $5,
		    produto = $6, lote = $7, nome_empresa = $8, resolucao = $9, url = $10,
		    data_dou = $11, motivo = $12, email_notificador = $13
		WHERE id_comunicacao = $14
	`
	result, err := s.db.ExecContext(ctx, query,
		comm.DataEmail,
		comm.AcaoAdotada,
		comm.CNPJ,
		comm.Categoria,
		comm.Escopo,
		comm.Produto,
		comm.Lote,
		comm.NomeEmpresa,
		comm.Resolucao,
		comm.URL,
		comm.DataDou,
		comm.MotivoAcao,
		comm.EmailNotificador,
		comm.ID,
	)
	if err != nil {
		return fmt.Errorf("update communication: %w", err)
	}
	return requireAffected(result)
}

func (s *CommunicationStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comunicacao WHERE id_comunicacao = $1`, id)
	if err != nil {
		return fmt.Errorf("delete communication: %w", err)
	}
	return requireAffected(result)
}

func scanCommunication(row rowScanner) (*monitor.Communication, error) {
	var comm monitor.Communication
	err := row.Scan(
		&comm.ID,
		&comm.DataEmail,
		&comm.AcaoAdotada,
		&comm.CNPJ,
		&comm.Categoria,
		&comm.Escopo,
		&comm.Produto,
		&comm.Lote,
		&comm.NomeEmpresa,
		&comm.Resolucao,
		&comm.URL,
		&comm.DataDou,
		&comm.MotivoAcao,
		&comm.EmailNotificador,
		&comm.CriadoPor,
		&comm.CriadoEm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan communication: %w", err)
	}
	return &comm, nil
}
