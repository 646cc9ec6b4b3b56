// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamish_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamish_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamish_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamish_http_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	ServerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamish_server_errors_total",
			Help: "Requests that failed with an internal error",
		},
		[]string{"route"},
	)

	StoreUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamish_store_up",
			Help: "1 when the last storage ping succeeded",
		},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, route, statusCode string, d time.Duration) {
	RequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		ActiveRequests.Inc()
	} else {
		ActiveRequests.Dec()
	}
}

// SetStoreUp records the outcome of a storage ping.
func SetStoreUp(up bool) {
	if up {
		StoreUp.Set(1)
		return
	}
	StoreUp.Set(0)
}
