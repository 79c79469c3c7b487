// Package metrics provides Prometheus metrics for the championship simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the simulator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	runBuckets       []float64
	seasonBuckets    []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Simulation Metrics
	runsTotal        *prometheus.CounterVec
	seasonsSimulated prometheus.Counter
	runDuration      prometheus.Histogram
	seasonLatency    prometheus.Histogram
	winProbability   *prometheus.GaugeVec
	tieFraction      *prometheus.GaugeVec

	// Store Metrics
	storedRuns prometheus.Gauge

	// Queue Metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker Metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "champsim",
		subsystem:        "simulation",
		histogramBuckets: prometheus.DefBuckets,
		runBuckets:       []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		seasonBuckets:    []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	if m.enabled {
		m.initializeMetrics()
	}

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	// Simulation Metrics
	m.runsTotal = auto.NewCounterVec(m.counterOpts("runs_total", "Simulation runs by outcome"), []string{"mode", "outcome"})
	m.seasonsSimulated = auto.NewCounter(m.counterOpts("seasons_total", "Total number of simulated seasons"))
	m.runDuration = auto.NewHistogram(m.histogramOpts("run_duration_milliseconds", "Wall time of a complete simulation run in milliseconds", m.runBuckets))
	m.seasonLatency = auto.NewHistogram(m.histogramOpts("season_latency_microseconds", "Time to play one season in microseconds", m.seasonBuckets))
	m.winProbability = auto.NewGaugeVec(m.gaugeOpts("win_probability", "Title probability of the target in its latest run"), []string{"target"})
	m.tieFraction = auto.NewGaugeVec(m.gaugeOpts("tie_fraction", "Fraction of seasons the target shared the lead in its latest run"), []string{"target"})

	// Store Metrics
	m.storedRuns = auto.NewGauge(m.gaugeOpts("stored_runs", "Finished runs held in the run store"))

	// Queue Metrics
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Season jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum season jobs the queue holds"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue size divided by capacity"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Season jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Season jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounterVec(m.counterOpts("queue_enqueue_errors_total", "Rejected enqueues by reason"), []string{"reason"})

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Season workers running"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Worker time per job in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Jobs that failed inside a worker"))

	// HTTP Metrics
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordRun records a finished run: its mode (sequential or parallel),
// outcome (ok or error) and duration.
func (m *Manager) RecordRun(mode, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.runsTotal.WithLabelValues(mode, outcome).Inc()
	if outcome == "ok" {
		m.runDuration.Observe(durationMs)
	}
}

// AddSeasons counts simulated seasons.
func (m *Manager) AddSeasons(n int) {
	if !m.enabled {
		return
	}
	m.seasonsSimulated.Add(float64(n))
}

// RecordSeasonLatency records the time to play one season.
func (m *Manager) RecordSeasonLatency(us float64) {
	if !m.enabled {
		return
	}
	m.seasonLatency.Observe(us)
}

// UpdateTargetOdds publishes the latest win probability and tie fraction.
func (m *Manager) UpdateTargetOdds(target string, winProbability, tieFraction float64) {
	if !m.enabled {
		return
	}
	m.winProbability.WithLabelValues(target).Set(winProbability)
	m.tieFraction.WithLabelValues(target).Set(tieFraction)
}

// Package-level helpers delegate to the global manager.

// RecordRun records a finished run on the global manager.
func RecordRun(mode, outcome string, durationMs float64) {
	globalManager.RecordRun(mode, outcome, durationMs)
}

// AddSeasons counts simulated seasons.
func AddSeasons(n int) { globalManager.AddSeasons(n) }

// RecordSeasonLatency records the time to play one season in microseconds.
func RecordSeasonLatency(us float64) { globalManager.RecordSeasonLatency(us) }

// UpdateTargetOdds publishes the latest odds for target.
func UpdateTargetOdds(target string, winProbability, tieFraction float64) {
	globalManager.UpdateTargetOdds(target, winProbability, tieFraction)
}

// UpdateStoredRuns sets the number of stored runs.
func UpdateStoredRuns(count int) {
	if globalManager.enabled {
		globalManager.storedRuns.Set(float64(count))
	}
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP Metrics Functions.

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
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

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
