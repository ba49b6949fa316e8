package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigirisco/internal/auth"
	"vigirisco/pkg/domain"
	"vigirisco/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *MemoryStoreSuite) TestCreateAndFindActive() {
	ctx := context.Background()
	id, err := s.store.Create(ctx, &auth.User{
		Nome: "Maria", Email: "maria@example.org", Login: "msouza",
		SenhaHash: "hash", Perfil: domain.RoleUser,
	})
	s.Require().NoError(err)
	s.Require().NotZero(id)

	user, err := s.store.FindActiveByEmail(ctx, "maria@example.org")
	s.Require().NoError(err)
	s.Equal(id, user.ID)
	s.Equal("msouza", user.Login)
}

func (s *MemoryStoreSuite) TestInactiveAccountIsInvisible() {
	ctx := context.Background()
	s.store.Seed(auth.User{ID: 5, Email: "off@example.org", Login: "off", Inativo: true})

	_, err := s.store.FindActiveByEmail(ctx, "off@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestDuplicateEmailOrLoginConflicts() {
	ctx := context.Background()
	_, err := s.store.Create(ctx, &auth.User{Email: "a@example.org", Login: "a"})
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, &auth.User{Email: "a@example.org", Login: "b"})
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.Create(ctx, &auth.User{Email: "c@example.org", Login: "a"})
	s.ErrorIs(err, sentinel.ErrConflict)

	exists, err := s.store.ExistsByEmailOrLogin(ctx, "a@example.org", "zzz")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByEmailOrLogin(ctx, "zzz@example.org", "zzz")
	s.Require().NoError(err)
	s.False(exists)
}
