package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the login module.
type Metrics struct {
	Logins        prometheus.Counter
	LoginFailures prometheus.Counter
	UsersCreated  prometheus.Counter
}

// New creates and registers all login metrics.
func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigirisco_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigirisco_login_failures_total",
			Help: "Total number of failed login attempts",
		}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigirisco_users_created_total",
			Help: "Total number of users created in the system",
		}),
	}
}

func (m *Metrics) IncLogin() {
	if m != nil {
		m.Logins.Inc()
	}
}

func (m *Metrics) IncLoginFailure() {
	if m != nil {
		m.LoginFailures.Inc()
	}
}

func (m *Metrics) IncUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}
