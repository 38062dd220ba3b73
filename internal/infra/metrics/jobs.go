package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		videoJobsProcessedTotal,
		videoJobDurationSeconds,
		videoJobsRequeuedTotal,
	)
}

var videoJobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "video_jobs_processed_total",
		Help: "Total number of video jobs that reached a terminal state, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed', 'cancelled'
)

var videoJobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "video_job_duration_seconds",
		Help:    "Wall time from claim to terminal state per job.",
		Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
	},
	[]string{"status"},
)

var videoJobsRequeuedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "video_jobs_requeued_total",
		Help: "Jobs flipped back to queued by the recovery sweep.",
	},
)

func IncVideoJob(status string) {
	videoJobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveJobDuration(status string, seconds float64) {
	videoJobDurationSeconds.WithLabelValues(norm(status)).Observe(seconds)
}

func AddJobsRequeued(n int) {
	videoJobsRequeuedTotal.Add(float64(n))
}
