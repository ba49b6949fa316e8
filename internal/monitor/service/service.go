// Package service implements the mutation discipline for surveillance
// records: every mutating operation passes through here, completes (or fails)
// against the primary store, and then attempts exactly one audit record.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"vigirisco/internal/audit"
	"vigirisco/internal/monitor"
	monitormetrics "vigirisco/internal/monitor/metrics"
	"vigirisco/pkg/requestcontext"
)

// RumorStore persists rumor/event records.
type RumorStore interface {
	List(ctx context.Context) ([]monitor.Rumor, error)
	Get(ctx context.Context, id int64) (*monitor.Rumor, error)
	// Create inserts the rumor, assigns ID, IDU and CriadoEm on the passed
	// value, and returns the assigned id.
	Create(ctx context.Context, rumor *monitor.Rumor) (int64, error)
	// Update rewrites the mutable fields. Returns sentinel.ErrNotFound when
	// no row has the id.
	Update(ctx context.Context, rumor *monitor.Rumor) error
	Delete(ctx context.Context, id int64) error
	// SetNivelRisco updates the reporting band after an assessment.
	SetNivelRisco(ctx context.Context, id int64, nivel string) error
}

// CommunicationStore persists risk communication records.
type CommunicationStore interface {
	List(ctx context.Context) ([]monitor.Communication, error)
	Get(ctx context.Context, id int64) (*monitor.Communication, error)
	Create(ctx context.Context, comm *monitor.Communication) (int64, error)
	Update(ctx context.Context, comm *monitor.Communication) error
	Delete(ctx context.Context, id int64) error
}

// AssessmentStore persists risk assessments.
type AssessmentStore interface {
	Create(ctx context.Context, assessment *monitor.Assessment) (int64, error)
	ListByRumor(ctx context.Context, rumorID int64) ([]monitor.Assessment, error)
}

// Service coordinates stores, the audit recorder and the risk engine.
type Service struct {
	rumors      RumorStore
	comms       CommunicationStore
	assessments AssessmentStore
	recorder    *audit.Recorder
	logger      *slog.Logger
	metrics     *monitormetrics.Metrics
}

func New(
	rumors RumorStore,
	comms CommunicationStore,
	assessments AssessmentStore,
	recorder *audit.Recorder,
	logger *slog.Logger,
	metrics *monitormetrics.Metrics,
) *Service {
	return &Service{
		rumors:      rumors,
		comms:       comms,
		assessments: assessments,
		recorder:    recorder,
		logger:      logger,
		metrics:     metrics,
	}
}

// recordMutation audits one settled mutation with the acting principal from
// the request context.
func (s *Service) recordMutation(ctx context.Context, action audit.Action, table audit.Table, recordID string, before, after audit.Snapshot) {
	entry := audit.Entry{
		Action:   action,
		Table:    table,
		RecordID: recordID,
		Before:   before,
		After:    after,
		OriginIP: requestcontext.ClientIP(ctx),
	}
	if p, ok := requestcontext.Principal(ctx); ok {
		entry.ActorID, entry.ActorName = audit.Actor(p.SubjectID, p.DisplayName)
	}
	s.recorder.Record(ctx, entry)
}

// recordFailure audits a mutation attempt that did not take effect, either
// because the target row does not exist or because the store failed.
func (s *Service) recordFailure(ctx context.Context, table audit.Table, recordID, detail string) {
	payload, _ := json.Marshal(map[string]string{"detail": detail})
	entry := audit.Entry{
		Action:   audit.ActionError,
		Table:    table,
		RecordID: recordID,
		After:    audit.RawSnapshot{Table: table, Data: payload},
		OriginIP: requestcontext.ClientIP(ctx),
	}
	if p, ok := requestcontext.Principal(ctx); ok {
		entry.ActorID, entry.ActorName = audit.Actor(p.SubjectID, p.DisplayName)
	}
	s.recorder.Record(ctx, entry)
}

func actorID(ctx context.Context) int64 {
	if p, ok := requestcontext.Principal(ctx); ok {
		return p.SubjectID
	}
	return 0
}
