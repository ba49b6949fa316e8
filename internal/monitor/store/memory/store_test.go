package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vigirisco/internal/monitor"
	"vigirisco/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	rumors *RumorStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.rumors = NewRumorStore()
}

func (s *MemoryStoreSuite) TestCreateAssignsIDAndIDU() {
	rumor := monitor.Rumor{
		Titulo:   "Evento adverso",
		CriadoEm: time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC),
	}
	id, err := s.rumors.Create(context.Background(), &rumor)
	s.Require().NoError(err)
	s.Equal(id, rumor.ID)
	s.Equal("RUM-20260828153000-1", rumor.IDU)
}

func (s *MemoryStoreSuite) TestUpdateAndDeleteMissingRowNotFound() {
	ctx := context.Background()

	err := s.rumors.Update(ctx, &monitor.Rumor{ID: 99, Titulo: "x"})
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.rumors.Delete(ctx, 99), sentinel.ErrNotFound)
	s.ErrorIs(s.rumors.SetNivelRisco(ctx, 99, "Alto"), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestListNewestFirst() {
	ctx := context.Background()
	older := monitor.Rumor{Titulo: "antigo", CriadoEm: time.Now().Add(-time.Hour)}
	newer := monitor.Rumor{Titulo: "recente", CriadoEm: time.Now()}

	_, err := s.rumors.Create(ctx, &older)
	s.Require().NoError(err)
	_, err = s.rumors.Create(ctx, &newer)
	s.Require().NoError(err)

	list, err := s.rumors.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("recente", list[0].Titulo)
}

func (s *MemoryStoreSuite) TestAssessmentsAreAppendOnlyNewestFirst() {
	ctx := context.Background()
	store := NewAssessmentStore()

	for i := 1; i <= 3; i++ {
		a := monitor.Assessment{RumorID: 1}
		a.Inputs.Gravidade = i
		_, err := store.Create(ctx, &a)
		s.Require().NoError(err)
	}

	list, err := store.ListByRumor(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(3, list[0].Inputs.Gravidade)
	s.Equal(1, list[2].Inputs.Gravidade)

	empty, err := store.ListByRumor(ctx, 2)
	s.Require().NoError(err)
	s.Empty(empty)
}
