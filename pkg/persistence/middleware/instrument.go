package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

type instrumentedStore struct {
	next     ports.CoverageStore
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewInstrumentMiddleware records latency and failures of every store call.
// The collectors are registered on reg once; the returned Middleware may wrap
// any number of stores.
func NewInstrumentMiddleware(reg prometheus.Registerer) Middleware {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_store_operation_seconds",
		Help:    "Latency of coverage store operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_store_errors_total",
		Help: "Failed coverage store operations.",
	}, []string{"op"})
	if reg != nil {
		reg.MustRegister(duration, failures)
	}

	return func(next ports.CoverageStore) ports.CoverageStore {
		return &instrumentedStore{next: next, duration: duration, failures: failures}
	}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.failures.WithLabelValues(op).Inc()
	}
}

func (s *instrumentedStore) Merge(ctx context.Context, report domain.Report) error {
	start := time.Now()
	err := s.next.Merge(ctx, report)
	s.observe("merge", start, err)
	return err
}

func (s *instrumentedStore) Load(ctx context.Context) (domain.Report, error) {
	start := time.Now()
	report, err := s.next.Load(ctx)
	s.observe("load", start, err)
	return report, err
}

func (s *instrumentedStore) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.observe("clear", start, err)
	return err
}
