package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(httpRequestsTotal, httpRequestDurationMs)
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, labeled by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request handling latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"method", "route"},
	)
)

func ObserveHTTPRequest(method, route string, status int, latencyMs int) {
	httpRequestsTotal.WithLabelValues(norm(method), norm(route), strconv.Itoa(status)).Inc()
	httpRequestDurationMs.WithLabelValues(norm(method), norm(route)).Observe(float64(latencyMs))
}
