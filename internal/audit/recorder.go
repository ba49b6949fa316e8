package audit

import (
	"context"
	"log/slog"
	"time"

	auditmetrics "vigirisco/internal/audit/metrics"
	"vigirisco/pkg/requestcontext"
)

// Store persists audit entries. Append-only: implementations expose no update
// and no delete; a correction is a new entry.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Recorder writes audit entries best-effort. The store append returns an
// error like any other call; the Recorder is the one caller that deliberately
// discards it (after logging), so a failing audit write never changes the
// outcome of the mutation that triggered it.
//
// A critical system should use a retry queue instead.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *auditmetrics.Metrics
}

func NewRecorder(store Store, logger *slog.Logger, metrics *auditmetrics.Metrics) *Recorder {
	return &Recorder{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Record appends one entry for a mutation whose outcome is already known.
// It runs synchronously on the caller's goroutine, but a caller disconnect
// does not abort the in-flight append: the write is decoupled from the
// request's cancellation, consistent with its decoupling from the request's
// outcome.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r.metrics != nil {
		r.metrics.IncRecorded(string(entry.Action))
	}

	err := r.append(context.WithoutCancel(ctx), entry)
	if err == nil {
		return
	}

	if r.metrics != nil {
		r.metrics.IncAppendFailure()
	}
	if r.logger != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"error", err,
			"action", entry.Action,
			"table", entry.Table,
			"record_id", entry.RecordID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (r *Recorder) append(ctx context.Context, entry Entry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	return r.store.Append(ctx, entry)
}
