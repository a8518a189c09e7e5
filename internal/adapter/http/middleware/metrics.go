package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

const partiesPrefix = "/api/v1/parties/"

// normalizePath collapses resource ids so metric label cardinality stays
// bounded. /api/v1/parties/42/entries/7 -> /api/v1/parties/:id/entries/:id.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, partiesPrefix) {
		return path
	}

	rest := strings.TrimPrefix(path, partiesPrefix)
	if rest == "" || rest == "search" {
		return path
	}

	parts := strings.Split(rest, "/")
	if _, err := strconv.ParseInt(parts[0], 10, 64); err != nil {
		return path
	}

	parts[0] = ":id"

	if len(parts) >= 3 && parts[1] == "entries" {
		if _, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			parts[2] = ":id"
		}
	}

	return partiesPrefix + strings.Join(parts, "/")
}
