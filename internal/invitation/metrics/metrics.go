package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the invitation module.
type Metrics struct {
	InvitationsCreated prometheus.Counter
	Validations        *prometheus.CounterVec
	InvitationsExpired prometheus.Counter
	ValidateDuration   prometheus.Histogram
}

// New registers invitation metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InvitationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_invitations_created_total",
			Help: "Total number of invitations created",
		}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatehouse_invitation_validations_total",
			Help: "Invitation code validations by outcome",
		}, []string{"outcome"}),
		InvitationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_invitations_expired_total",
			Help: "Invitations transitioned to expired by validation or sweep",
		}),
		ValidateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatehouse_invitation_validate_duration_seconds",
			Help:    "Duration of front-desk code validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.InvitationsCreated.Inc()
}

// IncrementValidation records a validation outcome: "valid" or the rejection message.
func (m *Metrics) IncrementValidation(outcome string) {
	m.Validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddExpired(n int) {
	m.InvitationsExpired.Add(float64(n))
}

// ObserveValidate records the duration of a Validate call started at start.
func (m *Metrics) ObserveValidate(start time.Time) {
	m.ValidateDuration.Observe(time.Since(start).Seconds())
}
