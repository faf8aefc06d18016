// Package metrics exports lexicon service metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "lexvec"
	subsystem = "lexicon"
)

// Recorder holds the lexicon metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	upserts   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	searches  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	cacheHits *prometheus.CounterVec
}

// Config configures a Recorder.
type Config struct {
	// Registry to use; a new one is created when nil.
	Registry *prometheus.Registry

	// LatencyBuckets for operation histograms, in seconds.
	LatencyBuckets []float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}
}

// New creates a Recorder and registers its collectors.
func New(cfg Config) *Recorder {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Recorder{registry: registry}

	r.upserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upserts_total",
			Help:      "Record writes by category and status",
		},
		[]string{"category", "status"},
	)
	r.fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "encoding_fallbacks_total",
			Help:      "Encodings that resolved to a category default",
		},
		[]string{"category"},
	)
	r.searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_total",
			Help:      "Queries by kind and status",
		},
		[]string{"kind", "status"},
	)
	r.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_seconds",
			Help:      "Operation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"op"},
	)
	r.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_lookups_total",
			Help:      "Record cache lookups by result",
		},
		[]string{"result"},
	)

	registry.MustRegister(r.upserts, r.fallbacks, r.searches, r.latency, r.cacheHits)
	return r
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordUpsert counts one record write.
func (r *Recorder) RecordUpsert(category string, err error) {
	r.upserts.WithLabelValues(category, status(err)).Inc()
}

// RecordFallback counts one encoding fallback.
func (r *Recorder) RecordFallback(category string) {
	r.fallbacks.WithLabelValues(category).Inc()
}

// RecordSearch counts one query of the given kind.
func (r *Recorder) RecordSearch(kind string, err error) {
	r.searches.WithLabelValues(kind, status(err)).Inc()
}

// ObserveLatency records how long op took since start.
func (r *Recorder) ObserveLatency(op string, start time.Time) {
	r.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// RecordCache counts a cache lookup.
func (r *Recorder) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheHits.WithLabelValues(result).Inc()
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteFile writes the registry to path in the Prometheus text format, as
// read by the node exporter textfile collector. The file is replaced
// atomically.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
