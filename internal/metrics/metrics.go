// Package metrics exposes generator counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cardgen"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	generated       prometheus.Counter
	attempts        prometheus.Counter
	invalidPatterns prometheus.Counter
	lookups         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequences_generated_total",
			Help:      "Sequences that passed verification and were returned.",
		}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Calls to the pattern expander.",
		}),
		invalidPatterns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_pattern_attempts_total",
			Help:      "Attempts skipped because the pattern held a non-digit.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bin_lookups_total",
			Help:      "BIN registry lookups by result.",
		}, []string{"result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent producing one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.generated, m.attempts, m.invalidPatterns, m.lookups, m.batchDuration)
	return m
}

// ObserveBatch records one finished batch. Safe on a nil receiver.
func (m *Metrics) ObserveBatch(generated, attempts, invalid int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generated.Add(float64(generated))
	m.attempts.Add(float64(attempts))
	m.invalidPatterns.Add(float64(invalid))
	m.batchDuration.Observe(elapsed.Seconds())
}

// ObserveLookup counts a lookup; result is "ok" or "unavailable". Safe on a nil receiver.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
