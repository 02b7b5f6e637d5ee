// Package metrics provides Prometheus metrics for the draft leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh cycle
	refreshCycles    *prometheus.CounterVec
	refreshDuration  prometheus.Histogram
	refreshCoalesced prometheus.Counter
	lastRefreshUnix  prometheus.Gauge

	// Sources
	sourceLoads        *prometheus.CounterVec
	sourceLoadDuration *prometheus.HistogramVec
	sourceCacheHits    *prometheus.CounterVec

	// Contest state
	picksReported   prometheus.Gauge
	participants    prometheus.Gauge
	entriesRejected prometheus.Counter
	leaderChanges   prometheus.Counter
	commentaryLines *prometheus.CounterVec
	manualPicks     *prometheus.CounterVec

	// Queue
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draft",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.refreshCycles = m.counterVec("refresh_cycles_total",
		"Refresh cycles by trigger reason", "reason")
	m.refreshDuration = m.histogram("refresh_duration_milliseconds",
		"Duration of a full refresh cycle in milliseconds", m.histogramBuckets)
	m.refreshCoalesced = m.counter("refresh_coalesced_total",
		"Refresh requests folded into an already pending refresh")
	m.lastRefreshUnix = m.gauge("last_refresh_unix",
		"Unix timestamp of the last published leaderboard")

	m.sourceLoads = m.counterVec("source_loads_total",
		"Data source loads by source and status", "source", "status")
	m.sourceLoadDuration = m.histogramVec("source_load_duration_milliseconds",
		"Data source load duration in milliseconds", "source")
	m.sourceCacheHits = m.counterVec("source_cache_hits_total",
		"Data source loads answered from cache", "source")

	m.picksReported = m.gauge("picks_reported",
		"Number of first round picks reported so far")
	m.participants = m.gauge("participants",
		"Number of participants on the leaderboard")
	m.entriesRejected = m.counter("entries_rejected_total",
		"Entries rejected by the strict width policy")
	m.leaderChanges = m.counter("leader_changes_total",
		"Refresh cycles that produced a new leader")
	m.commentaryLines = m.counterVec("commentary_lines_total",
		"Commentary lines emitted by kind", "kind")
	m.manualPicks = m.counterVec("manual_picks_total",
		"Manually submitted picks by outcome", "outcome")

	m.queueSize = m.gauge("refresh_queue_size",
		"Refresh jobs waiting for the worker")
	m.queueCapacity = m.gauge("refresh_queue_capacity",
		"Maximum number of pending refresh jobs")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRefresh records a completed refresh cycle.
func RecordRefresh(reason string, durationMs float64, unix int64) {
	globalManager.refreshCycles.WithLabelValues(reason).Inc()
	globalManager.refreshDuration.Observe(durationMs)
	globalManager.lastRefreshUnix.Set(float64(unix))
}

// RecordRefreshCoalesced counts a refresh request folded into a pending one.
func RecordRefreshCoalesced() {
	globalManager.refreshCoalesced.Inc()
}

// RecordSourceLoad records a source load with its final status ("loaded" or "unavailable").
func RecordSourceLoad(source, status string, durationMs float64) {
	globalManager.sourceLoads.WithLabelValues(source, status).Inc()
	globalManager.sourceLoadDuration.WithLabelValues(source).Observe(durationMs)
}

// RecordSourceCacheHit counts a source load served from cache.
func RecordSourceCacheHit(source string) {
	globalManager.sourceCacheHits.WithLabelValues(source).Inc()
}

// UpdatePicksReported sets the number of reported picks.
func UpdatePicksReported(n int) {
	globalManager.picksReported.Set(float64(n))
}

// UpdateParticipants sets the leaderboard size.
func UpdateParticipants(n int) {
	globalManager.participants.Set(float64(n))
}

// RecordEntriesRejected adds n rejected entries.
func RecordEntriesRejected(n int) {
	globalManager.entriesRejected.Add(float64(n))
}

// RecordLeaderChange counts a change at the top of the board.
func RecordLeaderChange() {
	globalManager.leaderChanges.Inc()
}

// RecordCommentaryLine counts one emitted commentary line of the given kind.
func RecordCommentaryLine(kind string) {
	globalManager.commentaryLines.WithLabelValues(kind).Inc()
}

// RecordManualPick counts a manual pick submission by outcome.
func RecordManualPick(outcome string) {
	globalManager.manualPicks.WithLabelValues(outcome).Inc()
}

// UpdateQueueSize sets the number of pending refresh jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
