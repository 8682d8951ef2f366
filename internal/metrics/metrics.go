package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// TotalsCacheLookups counts monthly-totals cache lookups by result (hit, miss, error).
	TotalsCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gastos_totals_cache_lookups_total",
			Help: "Monthly totals cache lookups by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, TotalsCacheLookups)
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

// RecordCacheLookup counts one totals cache lookup.
func RecordCacheLookup(result string) {
	TotalsCacheLookups.WithLabelValues(result).Inc()
}
