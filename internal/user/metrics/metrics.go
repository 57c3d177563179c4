package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks registrations and sign-in outcomes.
type Metrics struct {
	Registrations prometheus.Counter
	Logins        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_user_registrations_total",
			Help: "Total number of user registrations",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatehouse_user_logins_total",
			Help: "Sign-in attempts, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementRegistration() {
	m.Registrations.Inc()
}

func (m *Metrics) IncrementLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
