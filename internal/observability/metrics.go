package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation.
	HTTPRequestsInFlight prometheus.Gauge

	// Per-feed fetch rate. status is success or fallback; a rising fallback
	// ratio means an upstream (rate source, open-meteo, fuel page, routing
	// API) is degrading.
	FeedFetchesTotal *prometheus.CounterVec

	// Per-feed fetch latency, including the bounded network timeout.
	FeedFetchDuration *prometheus.HistogramVec

	// Feed cache hits. Misses = feedFetchesTotal for the cached feeds.
	CacheHitsTotal *prometheus.CounterVec

	// Cache backend failures by operation (get/set/invalidate). Non-zero
	// values with a memcached backend mean the node is unreachable.
	CacheErrorsTotal *prometheus.CounterVec

	// Routing (distance matrix) call rate by status.
	RoutingAPICallsTotal *prometheus.CounterVec

	// Routing call latency.
	RoutingAPIDuration *prometheus.HistogramVec

	// Commute legs by resulting tier. A burst of "red" is a traffic jam.
	CommuteLegsTotal *prometheus.CounterVec

	// Manual refresh actions.
	RefreshesTotal prometheus.Counter

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	FeedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedFetchesTotal",
			Help: "Upstream feed fetches by feed and outcome (success or fallback)",
		},
		[]string{"feed", "status"},
	)
	FeedFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedFetchDurationSeconds",
			Help:    "Upstream feed fetch latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"feed"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Feed cache hits by feed",
		},
		[]string{"feed"},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Cache backend errors by operation",
		},
		[]string{"operation"},
	)
	RoutingAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routingApiCallsTotal",
			Help: "Distance matrix API calls by status",
		},
		[]string{"status"},
	)
	RoutingAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routingApiDurationSeconds",
			Help:    "Distance matrix API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	CommuteLegsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commuteLegsTotal",
			Help: "Computed commute legs by display tier",
		},
		[]string{"tier"},
	)
	RefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refreshesTotal",
			Help: "Manual refresh actions that invalidated the feed caches",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
		FeedFetchesTotal,
		FeedFetchDuration,
		CacheHitsTotal,
		CacheErrorsTotal,
		RoutingAPICallsTotal,
		RoutingAPIDuration,
		CommuteLegsTotal,
		RefreshesTotal,
		RateLimitDeniedTotal,
	)
}

// RecordFeedFetch records one upstream fetch outcome. fallback covers every
// path that resolved to the documented degraded value.
func RecordFeedFetch(feed string, fallback bool, seconds float64) {
	status := "success"
	if fallback {
		status = "fallback"
	}
	FeedFetchesTotal.WithLabelValues(feed, status).Inc()
	FeedFetchDuration.WithLabelValues(feed).Observe(seconds)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
