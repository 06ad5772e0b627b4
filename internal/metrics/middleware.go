package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every exported metric.
const Namespace = "msgsearch"

// Route groups used as the "api" label.
const (
	APISearch = "search"
	APIStats  = "stats"
	APIUser   = "user"
	APIOps    = "ops"
)

// Search and statistics fan out over every partition and may run up to the
// backend timeout, so their buckets reach 60s.
var (
	fastBuckets    = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	backendBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of user lookup and operational requests in seconds",
			Buckets:   fastBuckets,
		},
		[]string{"method", "path", "status"},
	)

	archiveRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "archive_request_duration_seconds",
			Help:      "Duration of search and statistics requests in seconds",
			Buckets:   backendBuckets,
		},
		[]string{"api", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served, by api",
		},
		[]string{"api"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, archiveRequestDuration, httpRequestsTotal, httpRequestsInFlight)
}

// Middleware records HTTP request duration and count. Search and statistics
// requests land in the archive histogram; everything else in the HTTP one.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			// The route pattern is only known after routing, so in-flight
			// uses the raw path.
			inFlight := httpRequestsInFlight.WithLabelValues(apiGroup(r.URL.Path))
			inFlight.Inc()
			defer inFlight.Dec()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.status)

			path := normalizePath(chi.RouteContext(r.Context()).RoutePattern())
			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()

			switch api := apiGroup(path); api {
			case APISearch, APIStats:
				archiveRequestDuration.WithLabelValues(api, status).Observe(duration)
			default:
				httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			}
		})
	}
}

// normalizePath keeps label cardinality bounded: only chi route patterns
// (e.g. /api/user/{id}) are used, never raw request paths.
func normalizePath(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	return pattern
}

// apiGroup maps a path to its route group.
func apiGroup(path string) string {
	switch {
	case path == "/api/search" || strings.HasPrefix(path, "/api/search/"):
		return APISearch
	case path == "/api/stats" || strings.HasPrefix(path, "/api/stats/"):
		return APIStats
	case strings.HasPrefix(path, "/api/user/"):
		return APIUser
	default:
		return APIOps
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
