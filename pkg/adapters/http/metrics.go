package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records admin activity. A nil *Metrics records nothing.
type Metrics struct {
	actions *prometheus.CounterVec
	fetch   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_admin_actions_total",
				Help: "Admin requests handled, by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		fetch: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tally_report_fetch_seconds",
				Help:    "Time spent fetching the rendered report from object storage",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.actions, m.fetch)
	return m
}

func (m *Metrics) action(name, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) fetchDone(start time.Time) {
	if m == nil {
		return
	}
	m.fetch.Observe(time.Since(start).Seconds())
}
