package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for check-in and the tray pool.
type Metrics struct {
	CheckIns         prometheus.Counter
	CheckOuts        prometheus.Counter
	CheckInRejected  *prometheus.CounterVec
	TraysAssigned    prometheus.Gauge
	TrayPoolExhausts prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visitor_check_ins_total",
			Help: "Total number of visitors checked in",
		}),
		CheckOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visitor_check_outs_total",
			Help: "Total number of visitors checked out",
		}),
		CheckInRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatehouse_visitor_check_ins_rejected_total",
			Help: "Check-ins rejected, by reason",
		}, []string{"reason"}),
		TraysAssigned: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gatehouse_trays_assigned",
			Help: "Trays currently held by checked-in visitors",
		}),
		TrayPoolExhausts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_tray_pool_exhausted_total",
			Help: "Check-ins that found no tray available",
		}),
	}
}

func (m *Metrics) IncrementCheckIn() {
	m.CheckIns.Inc()
	m.TraysAssigned.Inc()
}

func (m *Metrics) IncrementCheckOut(releasedTray bool) {
	m.CheckOuts.Inc()
	if releasedTray {
		m.TraysAssigned.Dec()
	}
}

func (m *Metrics) IncrementRejected(reason string) {
	m.CheckInRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementExhausted() {
	m.TrayPoolExhausts.Inc()
	m.CheckInRejected.WithLabelValues("no_trays").Inc()
}

// SetAssigned resets the assigned gauge, e.g. after reading a shared pool at startup.
func (m *Metrics) SetAssigned(n int) {
	m.TraysAssigned.Set(float64(n))
}
