package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search backend, statistics and directory metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of search backend operations",
		},
		[]string{"op", "status"}, // op: search/stats; status: ok/error
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend operation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"op"},
	)

	SearchHitsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_total_hits",
			Help:      "Total matching messages reported per search",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		},
	)

	UserLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "user_lookups_total",
			Help:      "Directory lookups by outcome",
		},
		[]string{"result"}, // resolved / fallback / not_found
	)

	UserCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "user_cache_total",
			Help:      "User cache hits and misses",
		},
		[]string{"result"}, // hit / miss
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers backend and directory metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(SearchHitsTotal)
	prometheus.MustRegister(UserLookupsTotal)
	prometheus.MustRegister(UserCacheTotal)
	searchMetricsRegistered = true
}

// ObserveBackend records one backend operation.
func ObserveBackend(op string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BackendRequestsTotal.WithLabelValues(op, status).Inc()
	BackendRequestDuration.WithLabelValues(op).Observe(seconds)
}
