// Package observability provides Prometheus metrics for the verification service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"indigenousverify/internal/domain"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	verdicts      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verify_verdicts_total",
				Help: "Number of recorded verdicts by status",
			},
			[]string{"status"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verify_store_operation_duration_seconds",
				Help:    "Duration of state store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verify_store_errors_total",
				Help: "Number of failed state store operations",
			},
			[]string{"operation"},
		),
	}
	for _, c := range []prometheus.Collector{m.verdicts, m.storeDuration, m.storeErrors} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry returns the registry the collectors were registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordVerdict(status domain.Status) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(string(status)).Inc()
}

// ObserveStore records the duration of a store operation started at start,
// and counts it as failed when err is non-nil.
func (m *Metrics) ObserveStore(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.storeErrors.WithLabelValues(operation).Inc()
	}
}
