package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const apiPrefix = "/api/v1/"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"resource", "method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route",
		},
		[]string{"resource", "method", "route", "status"},
	)

	httpResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "Response body size; listing pages dominate the tail",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
		},
		[]string{"resource"},
	)

	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpResponseBytes, httpRequestsInFlight)
}

// Middleware records per-route latency, count and response size.
// Must be mounted on the chi router so the matched pattern is known after next returns.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = normalizePath(rc.RoutePattern())
			}
			res := resourceOf(route)
			status := strconv.Itoa(ww.status)

			httpRequestDuration.WithLabelValues(res, r.Method, route, status).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(res, r.Method, route, status).Inc()
			httpResponseBytes.WithLabelValues(res).Observe(float64(ww.bytes))
		})
	}
}

// normalizePath keeps label cardinality bounded: route patterns only, never raw ids.
func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// resourceOf maps a route pattern to its top-level API resource,
// e.g. "/api/v1/bootcamps/{id}/courses" -> "bootcamps".
func resourceOf(route string) string {
	if rest, ok := strings.CutPrefix(route, apiPrefix); ok {
		name, _, _ := strings.Cut(rest, "/")
		if name != "" {
			return name
		}
	}
	switch route {
	case "/health", "/metrics":
		return strings.TrimPrefix(route, "/")
	}
	return "other"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
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
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err //nolint:wrapcheck // delegating to underlying ResponseWriter
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
