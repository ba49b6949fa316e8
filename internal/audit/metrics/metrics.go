package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the audit trail. Append failures
// are the operational signal for the best-effort write path: they never reach
// the caller, so this counter plus the log line is the only way to see them.
type Metrics struct {
	Recorded       *prometheus.CounterVec
	AppendFailures prometheus.Counter
}

// New creates and registers all audit metrics.
func New() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigirisco_audit_entries_recorded_total",
			Help: "Total number of audit entries submitted to the recorder, by action kind",
		}, []string{"action"}),
		AppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigirisco_audit_append_failures_total",
			Help: "Total number of audit store appends that failed and were swallowed",
		}),
	}
}

// IncRecorded counts one submitted entry for the given action kind.
func (m *Metrics) IncRecorded(action string) {
	m.Recorded.WithLabelValues(action).Inc()
}

// IncAppendFailure counts one swallowed append failure.
func (m *Metrics) IncAppendFailure() {
	m.AppendFailures.Inc()
}
