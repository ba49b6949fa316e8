package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the monitoring module.
type Metrics struct {
	Mutations   *prometheus.CounterVec
	Assessments prometheus.Counter
}

// New creates and registers all monitoring metrics.
func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigirisco_monitor_mutations_total",
			Help: "Total number of surveillance record mutations, by entity and action",
		}, []string{"entity", "action"}),
		Assessments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigirisco_risk_assessments_total",
			Help: "Total number of risk assessments computed and persisted",
		}),
	}
}

// IncMutation counts one completed mutation.
func (m *Metrics) IncMutation(entity, action string) {
	if m != nil {
		m.Mutations.WithLabelValues(entity, action).Inc()
	}
}

// IncAssessment counts one persisted risk assessment.
func (m *Metrics) IncAssessment() {
	if m != nil {
		m.Assessments.Inc()
	}
}
