package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		videogenCallsTotal,
		videogenCallLatencyMs,
		videogenSubmitRetriesTotal,
	)
}

var (
	videogenCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videogen_calls_total",
			Help: "Calls against the external generation capability per operation.",
		},
		[]string{"op", "success"}, // op 'upload'|'submit'|'poll'|'fetch'
	)

	videogenCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videogen_call_latency_ms",
			Help:    "Latency of external generation capability calls in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 15000, 60000},
		},
		[]string{"op"},
	)

	videogenSubmitRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "videogen_submit_retries_total",
			Help: "Transient submission errors that were retried.",
		},
	)
)

func ObserveVideoGenCall(op string, latencyMs int, success bool) {
	videogenCallsTotal.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
	videogenCallLatencyMs.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}

func IncSubmitRetry() {
	videogenSubmitRetriesTotal.Inc()
}
