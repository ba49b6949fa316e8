// Package postgres persists user accounts in the login table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vigirisco/internal/auth"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/platform/sentinel"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindActiveByEmail returns the non-inactive account with the given email,
// or sentinel.ErrNotFound. Inactive accounts are indistinguishable from
// missing ones by design.
func (s *Store) FindActiveByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id_login, nome, email, login, senha, perfil, inativo, criado_em
		FROM login
		WHERE email = $1 AND inativo = FALSE
	`
	var (
		user   auth.User
		perfil string
	)
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Nome,
		&user.Email,
		&user.Login,
		&user.SenhaHash,
		&perfil,
		&user.Inativo,
		&user.CriadoEm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	role, err := domain.ParseRole(perfil)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	user.Perfil = role
	return &user, nil
}

// ExistsByEmailOrLogin reports whether any account already uses the email or
// the login name, active or not.
func (s *Store) ExistsByEmailOrLogin(ctx context.Context, email, login string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM login WHERE email = $1 OR login = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing accounts: %w", err)
	}
	return exists, nil
}

// Create inserts the account and returns its assigned id. A unique violation
// on email or login maps to sentinel.ErrConflict.
func (s *Store) Create(ctx context.Context, user *auth.User) (int64, error) {
	query := `
		INSERT INTO login (nome, email, login, senha, perfil, inativo, criado_em)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id_login
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		user.Nome,
		user.Email,
		user.Login,
		user.SenhaHash,
		user.Perfil.String(),
		user.CriadoEm,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}
