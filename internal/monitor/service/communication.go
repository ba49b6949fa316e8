package service

import (
	"context"
	"errors"

	"vigirisco/internal/audit"
	"vigirisco/internal/monitor"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/sentinel"
	"vigirisco/pkg/requestcontext"
)

// ListCommunications returns every risk communication. Read-only, not audited.
func (s *Service) ListCommunications(ctx context.Context) ([]monitor.Communication, error) {
	comms, err := s.comms.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list communications")
	}
	return comms, nil
}

// GetCommunication returns one risk communication by primary key.
func (s *Service) GetCommunication(ctx context.Context, id int64) (*monitor.Communication, error) {
	comm, err := s.comms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "communication not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load communication")
	}
	return comm, nil
}

// CreateCommunication inserts a new risk communication and audits the insert.
func (s *Service) CreateCommunication(ctx context.Context, comm monitor.Communication) (*monitor.Communication, error) {
	if comm.DataEmail.IsZero() {
		comm.DataEmail = requestcontext.Now(ctx)
	}
	comm.CriadoPor = actorID(ctx)

	id, err := s.comms.Create(ctx, &comm)
	if err != nil {
		s.recordFailure(ctx, audit.TableComunicacao, "", err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create communication")
	}

	s.metrics.IncMutation("comunicacao", "insert")
	s.recordMutation(ctx, audit.ActionInsert, audit.TableComunicacao, audit.CoerceID(id), nil, commSnapshot(comm))
	return &comm, nil
}

// UpdateCommunication rewrites an existing communication, auditing before and
// after state.
func (s *Service) UpdateCommunication(ctx context.Context, comm monitor.Communication) (*monitor.Communication, error) {
	if comm.ID == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "communication id is required")
	}

	current, err := s.comms.Get(ctx, comm.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordFailure(ctx, audit.TableComunicacao, audit.CoerceID(comm.ID), "update target not found")
			return nil, dErrors.New(dErrors.CodeNotFound, "communication not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load communication")
	}

	comm.CriadoPor = current.CriadoPor
	comm.CriadoEm = current.CriadoEm

	if err := s.comms.Update(ctx, &comm); err != nil {
		s.recordFailure(ctx, audit.TableComunicacao, audit.CoerceID(comm.ID), err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update communication")
	}

	s.metrics.IncMutation("comunicacao", "update")
	s.recordMutation(ctx, audit.ActionUpdate, audit.TableComunicacao, audit.CoerceID(comm.ID),
		commSnapshot(*current), commSnapshot(comm))
	return &comm, nil
}

// DeleteCommunication removes a communication, keeping the deleted state as
// the before snapshot.
func (s *Service) DeleteCommunication(ctx context.Context, id int64) error {
	current, err := s.comms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordFailure(ctx, audit.TableComunicacao, audit.CoerceID(id), "delete target not found")
			return dErrors.New(dErrors.CodeNotFound, "communication not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load communication")
	}

	if err := s.comms.Delete(ctx, id); err != nil {
		s.recordFailure(ctx, audit.TableComunicacao, audit.CoerceID(id), err.Error())
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete communication")
	}

	s.metrics.IncMutation("comunicacao", "delete")
	s.recordMutation(ctx, audit.ActionDelete, audit.TableComunicacao, audit.CoerceID(id),
		commSnapshot(*current), nil)
	return nil
}

func commSnapshot(c monitor.Communication) audit.CommunicationSnapshot {
	snapshot := audit.CommunicationSnapshot{
		ID:               c.ID,
		DataEmail:        c.DataEmail.Format("2006-01-02"),
		AcaoAdotada:      c.AcaoAdotada,
		CNPJ:             c.CNPJ,
		Categoria:        c.Categoria,
		Escopo:           c.Escopo,
		Produto:          c.Produto,
		Lote:             c.Lote,
		NomeEmpresa:      c.NomeEmpresa,
		Resolucao:        c.Resolucao,
		URL:              c.URL,
		MotivoAcao:       c.MotivoAcao,
		EmailNotificador: c.EmailNotificador,
	}
	if c.DataDou != nil {
		snapshot.DataDou = c.DataDou.Format("2006-01-02")
	}
	return snapshot
}
