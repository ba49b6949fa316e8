package service

import (
	"context"
	"errors"
	"strings"

	"vigirisco/internal/audit"
	"vigirisco/internal/monitor"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/sentinel"
	"vigirisco/pkg/requestcontext"
)

// ListRumors returns every rumor/event record. Read-only, not audited.
func (s *Service) ListRumors(ctx context.Context) ([]monitor.Rumor, error) {
	rumors, err := s.rumors.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rumors")
	}
	return rumors, nil
}

// GetRumor returns one rumor by primary key.
func (s *Service) GetRumor(ctx context.Context, id int64) (*monitor.Rumor, error) {
	rumor, err := s.rumors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "rumor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rumor")
	}
	return rumor, nil
}

// CreateRumor inserts a new rumor under monitoring and audits the insert.
// The store assigns the primary key and the IDU; the status always starts as
// "em monitoramento".
func (s *Service) CreateRumor(ctx context.Context, rumor monitor.Rumor) (*monitor.Rumor, error) {
	if strings.TrimSpace(rumor.Titulo) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "titulo is required")
	}
	if rumor.DataRecebimento.IsZero() {
		rumor.DataRecebimento = requestcontext.Now(ctx)
	}
	rumor.IDStatus = monitor.StatusEmMonitoramento
	rumor.CriadoPor = actorID(ctx)

	id, err := s.rumors.Create(ctx, &rumor)
	if err != nil {
		s.recordFailure(ctx, audit.TableRumorEvento, "", err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create rumor")
	}

	s.metrics.IncMutation("rumor", "insert")
	s.recordMutation(ctx, audit.ActionInsert, audit.TableRumorEvento, audit.CoerceID(id), nil, rumorSnapshot(rumor))
	return &rumor, nil
}

// UpdateRumor rewrites the mutable fields of an existing rumor. The audit
// entry carries the full before and after state.
func (s *Service) UpdateRumor(ctx context.Context, rumor monitor.Rumor) (*monitor.Rumor, error) {
	if rumor.ID == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "rumor id is required")
	}
	if strings.TrimSpace(rumor.Titulo) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "titulo is required")
	}

	current, err := s.rumors.Get(ctx, rumor.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordFailure(ctx, audit.TableRumorEvento, audit.CoerceID(rumor.ID), "update target not found")
			return nil, dErrors.New(dErrors.CodeNotFound, "rumor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rumor")
	}

	// Identity and provenance never change on update.
	rumor.IDU = current.IDU
	rumor.NivelRisco = current.NivelRisco
	rumor.CriadoPor = current.CriadoPor
	rumor.CriadoEm = current.CriadoEm

	if err := s.rumors.Update(ctx, &rumor); err != nil {
		s.recordFailure(ctx, audit.TableRumorEvento, audit.CoerceID(rumor.ID), err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update rumor")
	}

	s.metrics.IncMutation("rumor", "update")
	s.recordMutation(ctx, audit.ActionUpdate, audit.TableRumorEvento, audit.CoerceID(rumor.ID),
		rumorSnapshot(*current), rumorSnapshot(rumor))
	return &rumor, nil
}

// DeleteRumor removes a rumor. The audit entry keeps the deleted state as the
// before snapshot; a delete of a missing row is still audited before the
// not-found error surfaces.
func (s *Service) DeleteRumor(ctx context.Context, id int64) error {
	current, err := s.rumors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordFailure(ctx, audit.TableRumorEvento, audit.CoerceID(id), "delete target not found")
			return dErrors.New(dErrors.CodeNotFound, "rumor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rumor")
	}

	if err := s.rumors.Delete(ctx, id); err != nil {
		s.recordFailure(ctx, audit.TableRumorEvento, audit.CoerceID(id), err.Error())
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete rumor")
	}

	s.metrics.IncMutation("rumor", "delete")
	s.recordMutation(ctx, audit.ActionDelete, audit.TableRumorEvento, audit.CoerceID(id),
		rumorSnapshot(*current), nil)
	return nil
}

func rumorSnapshot(r monitor.Rumor) audit.RumorSnapshot {
	return audit.RumorSnapshot{
		ID:                   r.ID,
		IDU:                  r.IDU,
		Titulo:               r.Titulo,
		Descricao:            r.Descricao,
		LocalEvento:          r.LocalEvento,
		NotificadorFonte:     r.NotificadorFonte,
		DataRecebimento:      r.DataRecebimento.Format("2006-01-02"),
		Veracidade:           r.Veracidade,
		FundamentoVeracidade: r.FundamentoVeracidade,
		NivelRisco:           r.NivelRisco,
		IDPais:               deref(r.IDPais),
		IDEstado:             deref(r.IDEstado),
		IDCidade:             deref(r.IDCidade),
		IDNatureza:           deref(r.IDNatureza),
		IDIcmra:              deref(r.IDIcmra),
		IDStatus:             r.IDStatus,
	}
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
