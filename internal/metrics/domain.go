package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "devcamper"

// Geocoder, upload and background side-effect metrics.
var (
	GeocoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocoder_requests_total",
			Help:      "Total number of geocoding requests",
		},
		[]string{"provider", "status"}, // "ok" / "no_match" / "error"
	)

	GeocoderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocoder_request_duration_seconds",
			Help:      "Geocoding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	PhotoUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_uploads_total",
			Help:      "Photo uploads by storage backend and outcome",
		},
		[]string{"backend", "status"},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-client rate limiter",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the metrics above. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(GeocoderRequestsTotal)
	prometheus.MustRegister(GeocoderRequestDuration)
	prometheus.MustRegister(PhotoUploadsTotal)
	prometheus.MustRegister(RateLimitedTotal)
	domainMetricsRegistered = true
}
