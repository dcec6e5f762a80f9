package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bazaar_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	cascadeSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_cascade_steps_total",
		Help: "Cascade steps executed, by cascade, step and result",
	}, []string{"cascade", "step", "result"})

	cascadeFileFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bazaar_cascade_file_failures_total",
		Help: "File cleanup steps that failed after the store changes were committed",
	})

	searchBoundsCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_search_bounds_cache_total",
		Help: "Search bounds cache lookups by result",
	}, []string{"result"})
)

// Cascade step results
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCascadeStep counts one executed cascade step
func ObserveCascadeStep(cascade, step, result string) {
	cascadeSteps.WithLabelValues(cascade, step, result).Inc()
}

// ObserveCascadeFileFailure counts a swallowed file cleanup failure
func ObserveCascadeFileFailure() {
	cascadeFileFailures.Inc()
}

// ObserveBoundsCache records a bounds cache lookup outcome
func ObserveBoundsCache(result string) {
	searchBoundsCache.WithLabelValues(result).Inc()
}
