//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vigirisco/internal/auth"
	"vigirisco/internal/auth/store/postgres"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/platform/sentinel"
	"vigirisco/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(
		context.Background(),
		"log_auditoria", "risco", "comunicacao", "rumor_evento", "login",
	))
}

func (s *PostgresStoreSuite) newUser(email, login string) *auth.User {
	return &auth.User{
		Nome:      "Maria Souza",
		Email:     email,
		Login:     login,
		SenhaHash: "$2a$10$hash",
		Perfil:    domain.RoleUser,
		CriadoEm:  time.Now(),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindActive() {
	ctx := context.Background()

	id, err := s.store.Create(ctx, s.newUser("maria@example.org", "msouza"))
	s.Require().NoError(err)
	s.Require().NotZero(id)

	user, err := s.store.FindActiveByEmail(ctx, "maria@example.org")
	s.Require().NoError(err)
	s.Equal(id, user.ID)
	s.Equal("msouza", user.Login)
	s.Equal(domain.RoleUser, user.Perfil)
	s.False(user.Inativo)
}

func (s *PostgresStoreSuite) TestUnknownEmailIsNotFound() {
	_, err := s.store.FindActiveByEmail(context.Background(), "ghost@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestInactiveAccountIsInvisible() {
	ctx := context.Background()
	id, err := s.store.Create(ctx, s.newUser("off@example.org", "off"))
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx, `UPDATE login SET inativo = TRUE WHERE id_login = $1`, id)
	s.Require().NoError(err)

	_, err = s.store.FindActiveByEmail(ctx, "off@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueViolationMapsToConflict() {
	ctx := context.Background()
	_, err := s.store.Create(ctx, s.newUser("maria@example.org", "msouza"))
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, s.newUser("maria@example.org", "other"))
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.Create(ctx, s.newUser("other@example.org", "msouza"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestExistsByEmailOrLogin() {
	ctx := context.Background()
	_, err := s.store.Create(ctx, s.newUser("maria@example.org", "msouza"))
	s.Require().NoError(err)

	exists, err := s.store.ExistsByEmailOrLogin(ctx, "maria@example.org", "zzz")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByEmailOrLogin(ctx, "zzz@example.org", "msouza")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByEmailOrLogin(ctx, "zzz@example.org", "zzz")
	s.Require().NoError(err)
	s.False(exists)
}
