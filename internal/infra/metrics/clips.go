package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		dayClipsGeneratedTotal,
		dayClipGenerationSeconds,
		dayClipPollCycles,
	)
}

var dayClipsGeneratedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "day_clips_generated_total",
		Help: "Day clips that reached a terminal state, labeled by status and failure kind.",
	},
	[]string{"status", "reason"}, // status 'downloaded'|'failed'; reason 'none'|'timeout'|'rejected'|'capability'|'download'|'cancelled'
)

var dayClipGenerationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "day_clip_generation_seconds",
		Help:    "Submit-to-terminal wall time for one day clip.",
		Buckets: []float64{10, 30, 60, 120, 240, 480, 600, 900},
	},
	[]string{"status"},
)

var dayClipPollCycles = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "day_clip_poll_cycles",
		Help:    "Number of poll cycles until a clip task reached a terminal state.",
		Buckets: []float64{1, 2, 5, 10, 20, 40, 60},
	},
)

func IncDayClip(status, reason string) {
	dayClipsGeneratedTotal.WithLabelValues(norm(status), norm(reason)).Inc()
}

func ObserveClipGeneration(status string, seconds float64) {
	dayClipGenerationSeconds.WithLabelValues(norm(status)).Observe(seconds)
}

func ObservePollCycles(n int) {
	dayClipPollCycles.Observe(float64(n))
}
