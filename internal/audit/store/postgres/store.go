// Package postgres persists audit entries in the log_auditoria table.
// The table is append-only; this store exposes no update and no delete.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vigirisco/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit entry. Snapshot columns are JSONB; a nil snapshot
// is stored as NULL, never as an empty object.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	before, err := marshalSnapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal before snapshot: %w", err)
	}
	after, err := marshalSnapshot(entry.After)
	if err != nil {
		return fmt.Errorf("marshal after snapshot: %w", err)
	}

	query := `
		INSERT INTO log_auditoria (
			id_usuario, nome_usuario, tipo_acao, tabela_afetada,
			id_registro_afetado, dados_anteriores, dados_novos,
			ip_origem, data_hora
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ActorID,
		entry.ActorName,
		string(entry.Action),
		nullableString(string(entry.Table)),
		nullableString(entry.RecordID),
		before,
		after,
		entry.OriginIP,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent entries, newest first. Snapshots come
// back as opaque payloads tagged with the entry's table.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id_usuario, nome_usuario, tipo_acao, tabela_afetada,
		       id_registro_afetado, dados_anteriores, dados_novos,
		       ip_origem, data_hora
		FROM log_auditoria
		ORDER BY data_hora DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry         audit.Entry
			action        string
			affectedTable sql.NullString
			recordID      sql.NullString
			before, after []byte
		)
		err := rows.Scan(
			&entry.ActorID,
			&entry.ActorName,
			&action,
			&affectedTable,
			&recordID,
			&before,
			&after,
			&entry.OriginIP,
			&entry.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		entry.Action = audit.Action(action)
		entry.Table = audit.Table(affectedTable.String)
		entry.RecordID = recordID.String
		if before != nil {
			entry.Before = audit.RawSnapshot{Table: entry.Table, Data: json.RawMessage(before)}
		}
		if after != nil {
			entry.After = audit.RawSnapshot{Table: entry.Table, Data: json.RawMessage(after)}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func marshalSnapshot(snapshot audit.Snapshot) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	return json.Marshal(snapshot)
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
