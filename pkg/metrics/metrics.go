package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Graph projection build latency in seconds.
	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_build_duration_seconds",
			Help:    "Graph projection build duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"graph"}, // graph: archive, network
	)

	// Queries exceeding the slow-query threshold.
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
	)

	// Cache effectiveness per cached payload kind.
	CacheRequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_request_count",
			Help: "Total number of cache lookups",
		},
		[]string{"key", "outcome"}, // outcome: hit, miss
	)
)

// RecordHTTPRequestDuration records one served HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGraphBuildDuration records one graph projection build.
func RecordGraphBuildDuration(graph string, duration time.Duration) {
	GraphBuildDuration.WithLabelValues(graph).Observe(duration.Seconds())
}

// IncrementSlowQuery counts a query over the slow threshold.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// IncrementCacheHit counts a cache hit for key.
func IncrementCacheHit(key string) {
	CacheRequestCount.WithLabelValues(key, "hit").Inc()
}

// IncrementCacheMiss counts a cache miss for key.
func IncrementCacheMiss(key string) {
	CacheRequestCount.WithLabelValues(key, "miss").Inc()
}
