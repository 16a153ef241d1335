// Package metrics provides Prometheus metrics for the vbrank pipeline and API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exposed by vbrank.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Extraction
	rowsProcessed    *prometheus.CounterVec
	rowsRejected     *prometheus.CounterVec
	malformedNumeric prometheus.Counter
	recordsExtracted prometheus.Counter

	// Sources
	sourcesFetched *prometheus.CounterVec
	fetchLatency   prometheus.Histogram

	// Runs
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	rankedTeams  prometheus.Gauge
	lastRunUnix  prometheus.Gauge
	fallbackUsed prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before metrics are recorded or served.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vbrank",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.rowsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_processed_total",
		Help:      "Total number of CSV rows offered to the extractor",
	}, []string{"source"})

	m.rowsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_rejected_total",
		Help:      "Total number of rows rejected by the extractor, by reason",
	}, []string{"reason"})

	m.malformedNumeric = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_numeric_total",
		Help:      "Total number of placement cells whose value was not a plain integer",
	})

	m.recordsExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_extracted_total",
		Help:      "Total number of team records produced by the extractor",
	})

	m.sourcesFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sources_fetched_total",
		Help:      "Total number of source fetch attempts by outcome",
	}, []string{"outcome"})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Histogram of source fetch latency in milliseconds",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of pipeline runs by outcome",
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Histogram of end-to-end pipeline run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankedTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_teams",
		Help:      "Number of teams in the latest ranking",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_unixtime",
		Help:      "Unix time of the last successful pipeline run",
	})

	m.fallbackUsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_sample_total",
		Help:      "Total number of runs that ranked the built-in sample instead of fetched data",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRowsProcessed adds n rows read from source.
func RecordRowsProcessed(source string, n int) {
	globalManager.rowsProcessed.WithLabelValues(source).Add(float64(n))
}

// RecordRowsRejected adds n rejected rows under reason.
func RecordRowsRejected(reason string, n int) {
	globalManager.rowsRejected.WithLabelValues(reason).Add(float64(n))
}

// RecordMalformedNumeric adds n malformed placement cells.
func RecordMalformedNumeric(n int) {
	globalManager.malformedNumeric.Add(float64(n))
}

// RecordRecordsExtracted adds n accepted team records.
func RecordRecordsExtracted(n int) {
	globalManager.recordsExtracted.Add(float64(n))
}

// RecordSourceFetched counts a fetch attempt; outcome is "ok" or "error".
func RecordSourceFetched(outcome string) {
	globalManager.sourcesFetched.WithLabelValues(outcome).Inc()
}

// RecordFetchLatency records source fetch latency in milliseconds.
func RecordFetchLatency(latencyMs float64) {
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordRun counts a pipeline run; outcome is "ok" or "error".
func RecordRun(outcome string) {
	globalManager.runs.WithLabelValues(outcome).Inc()
}

// RecordRunDuration records the run duration in seconds.
func RecordRunDuration(seconds float64) {
	globalManager.runDuration.Observe(seconds)
}

// UpdateRankedTeams sets the number of teams in the latest ranking.
func UpdateRankedTeams(count int) {
	globalManager.rankedTeams.Set(float64(count))
}

// UpdateLastRun sets the completion time of the last successful run.
func UpdateLastRun(unix int64) {
	globalManager.lastRunUnix.Set(float64(unix))
}

// RecordFallbackSample counts a run that fell back to the sample dataset.
func RecordFallbackSample() {
	globalManager.fallbackUsed.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
