package service

import (
	"context"
	"errors"

	"vigirisco/internal/audit"
	"vigirisco/internal/monitor"
	"vigirisco/internal/risk"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/sentinel"
	"vigirisco/pkg/requestcontext"
)

// AssessRumor runs the classification engine over the assessment inputs,
// persists the assessment and promotes the matriz band to the rumor's
// reporting field. Validation failures are not mutations and leave no audit
// trace; the persisted assessment is audited as one INSERT on the risk table.
func (s *Service) AssessRumor(ctx context.Context, rumorID int64, inputs risk.Inputs) (*monitor.Assessment, error) {
	if _, err := s.rumors.Get(ctx, rumorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "rumor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rumor")
	}

	result, err := risk.Classify(inputs)
	if err != nil {
		return nil, err
	}

	assessment := monitor.Assessment{
		RumorID:   rumorID,
		Inputs:    inputs,
		Result:    result,
		CriadoPor: actorID(ctx),
		CriadoEm:  requestcontext.Now(ctx),
	}

	id, err := s.assessments.Create(ctx, &assessment)
	if err != nil {
		s.recordFailure(ctx, audit.TableRisco, audit.CoerceID(rumorID), err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist assessment")
	}

	// Reporting band rides along with the assessment. A failure here leaves
	// the assessment in place; the band catches up on the next one.
	if err := s.rumors.SetNivelRisco(ctx, rumorID, string(result.Matriz.Band)); err != nil {
		s.logger.WarnContext(ctx, "failed to promote reporting band",
			"rumor_id", rumorID,
			"error", err.Error(),
		)
	}

	s.metrics.IncAssessment()
	s.recordMutation(ctx, audit.ActionInsert, audit.TableRisco, audit.CoerceID(id), nil, audit.AssessmentSnapshot{
		RumorID:                 rumorID,
		Gravidade:               inputs.Gravidade,
		Vulnerabilidade:         inputs.Vulnerabilidade,
		CapacidadeEnfrentamento: inputs.CapacidadeEnfrentamento,
		Probabilidade:           inputs.Probabilidade,
		ImpactoValor:            result.Impacto.Value,
		ImpactoClasse:           string(result.Impacto.Band),
		MatrizValor:             result.Matriz.Value,
		MatrizClasse:            string(result.Matriz.Band),
	})
	return &assessment, nil
}

// ListAssessments returns the persisted assessments of one rumor, newest
// first.
func (s *Service) ListAssessments(ctx context.Context, rumorID int64) ([]monitor.Assessment, error) {
	if _, err := s.rumors.Get(ctx, rumorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "rumor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rumor")
	}

	assessments, err := s.assessments.ListByRumor(ctx, rumorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assessments")
	}
	return assessments, nil
}
