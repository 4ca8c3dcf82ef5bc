// Package metrics provides Prometheus metrics for the rolematch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	batchBuckets   []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Recommendation metrics
	recommendations      prometheus.Counter
	recommendationErrors *prometheus.CounterVec
	scoringLatency       prometheus.Histogram
	batchSize            prometheus.Histogram

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheErrors prometheus.Counter

	// Catalog metrics
	catalogPostings prometheus.Gauge
	catalogRoles    prometheus.Gauge
	vocabularySize  prometheus.Gauge
	catalogLoads    *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "rolematch",
		subsystem:      "recommender",
		latencyBuckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500},
		batchBuckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		constLabels:    prometheus.Labels{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendations = m.counter("recommendations_total", "Total number of successful recommendation requests")
	m.recommendationErrors = m.counterVec("recommendation_errors_total", "Recommendation failures by error kind", "kind")
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_latency_milliseconds",
		Help:        "Time spent ranking the catalog for one candidate",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})
	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_size",
		Help:        "Number of candidates per batch request",
		Buckets:     m.batchBuckets,
		ConstLabels: m.constLabels,
	})

	m.cacheHits = m.counter("cache_hits_total", "Recommendation cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Recommendation cache misses")
	m.cacheErrors = m.counter("cache_errors_total", "Recommendation cache backend errors")

	m.catalogPostings = m.gauge("catalog_postings", "Number of job postings in the loaded catalog")
	m.catalogRoles = m.gauge("catalog_distinct_roles", "Number of distinct target roles in the loaded catalog")
	m.vocabularySize = m.gauge("vocabulary_size", "Number of terms in the fitted vectorizer")
	m.catalogLoads = m.counterVec("catalog_loads_total", "Catalog load attempts by outcome", "outcome")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRecommendation increments the successful recommendations counter.
func RecordRecommendation() {
	globalManager.recommendations.Inc()
}

// RecordRecommendationError increments the failure counter for kind.
func RecordRecommendationError(kind string) {
	globalManager.recommendationErrors.WithLabelValues(kind).Inc()
}

// RecordScoringLatency records ranking latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordBatchSize records the number of candidates in a batch request.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheError increments the cache error counter.
func RecordCacheError() {
	globalManager.cacheErrors.Inc()
}

// UpdateCatalogSize sets the posting and distinct role gauges.
func UpdateCatalogSize(postings, roles int) {
	globalManager.catalogPostings.Set(float64(postings))
	globalManager.catalogRoles.Set(float64(roles))
}

// UpdateVocabularySize sets the vectorizer vocabulary gauge.
func UpdateVocabularySize(n int) {
	globalManager.vocabularySize.Set(float64(n))
}

// RecordCatalogLoad counts a catalog load attempt with outcome "success",
// "retry" or "failure".
func RecordCatalogLoad(outcome string) {
	globalManager.catalogLoads.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
