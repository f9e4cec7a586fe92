package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the process.
type Metrics struct {
	FramesRendered    prometheus.Counter
	SessionsCompleted prometheus.Counter
	AnswersAnalyzed   prometheus.Counter
	AnswerScore       prometheus.Histogram
	ActiveSession     prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FramesRendered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Glyph field frames drawn.",
		}),
		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Practice sessions completed.",
		}),
		AnswersAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_analyzed_total",
			Help:      "Answers run through the behavior analyzer.",
		}),
		AnswerScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_score",
			Help:      "Behavior analyzer scores.",
			Buckets:   []float64{10, 25, 40, 50, 60, 70, 80, 90, 100},
		}),
		ActiveSession: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_session",
			Help:      "1 while a practice session is in progress.",
		}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes the metrics endpoint on addr. Best effort: a busy port only
// logs through the returned error channel.
func Serve(addr string) <-chan error {
	errs := make(chan error, 1)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", Handler())
		errs <- http.ListenAndServe(addr, mux)
	}()
	return errs
}
