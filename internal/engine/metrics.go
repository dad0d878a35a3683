package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "randseq"
	metricsSubsystem = "engine"
)

// Metrics holds the Prometheus instruments updated after every generation.
//
// Thread-safety: all operations are safe for concurrent use.
type Metrics struct {
	// GenerationsTotal counts generations by terminal status.
	// Labels: status (Success, BadRequest, Failed)
	GenerationsTotal *prometheus.CounterVec

	// Attempts observes the attempts consumed per generation.
	Attempts prometheus.Histogram

	// ResetsTotal counts resets across all generations.
	ResetsTotal prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "generations_total",
				Help:      "Total number of generations by terminal status",
			},
			[]string{"status"},
		),
		Attempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "attempts",
				Help:      "Attempts consumed per generation",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
			},
		),
		ResetsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "resets_total",
				Help:      "Total number of search resets",
			},
		),
	}
}

// observe records res. A nil Metrics is a no-op.
func (m *Metrics) observe(res *Result) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(res.status.String()).Inc()
	if res.status != StatusBadRequest {
		m.Attempts.Observe(float64(res.attempts))
	}
	m.ResetsTotal.Add(float64(len(res.resets)))
}
