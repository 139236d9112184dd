// Package metrics provides Prometheus metrics for the ladder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the ladder service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Match recording
	matchesRecorded prometheus.Counter
	matchFailures   *prometheus.CounterVec
	recordDuration  prometheus.Histogram
	commitDuration  prometheus.Histogram

	// Ladder state
	skillsTracked *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ladder",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_recorded_total",
		Help:      "Matches successfully recorded.",
	})
	m.matchFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_record_failures_total",
		Help:      "Failed record attempts by failure kind.",
	}, []string{"kind"})
	m.recordDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_duration_ms",
		Help:      "End-to-end match recording duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.commitDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_commit_duration_ms",
		Help:      "Atomic store commit duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.skillsTracked = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "skills_tracked",
		Help:      "Skill rows tracked per game.",
	}, []string{"game"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordMatchRecorded increments the recorded-matches counter.
func RecordMatchRecorded() {
	globalManager.matchesRecorded.Inc()
}

// RecordMatchFailure counts one failed record attempt by kind.
func RecordMatchFailure(kind string) {
	globalManager.matchFailures.WithLabelValues(kind).Inc()
}

// ObserveRecordDuration records match recording duration in milliseconds.
func ObserveRecordDuration(ms float64) {
	globalManager.recordDuration.Observe(ms)
}

// ObserveCommitDuration records atomic store commit duration in milliseconds.
func ObserveCommitDuration(ms float64) {
	globalManager.commitDuration.Observe(ms)
}

// UpdateSkillsTracked sets the skill-row count for a game.
func UpdateSkillsTracked(gameID string, count int) {
	globalManager.skillsTracked.WithLabelValues(gameID).Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
