package out

import (
	"context"
	"time"

	analyzerdomain "rehearse/internal/modules/analyzer/domain"
	sessiondomain "rehearse/internal/modules/session/domain"
)

// FeedbackSink receives scoring observations for display. The render
// engine's HUD queue is the production implementation.
type FeedbackSink interface {
	QueueFeedback(message string, feedbackType sessiondomain.FeedbackType, duration time.Duration)
}

// MetricsProvider supplies answer metrics when the caller has none, e.g.
// from an external transcription/scoring plugin.
type MetricsProvider interface {
	GetMetrics(ctx context.Context, answerText string, durationMS int) (analyzerdomain.Metrics, error)
}
