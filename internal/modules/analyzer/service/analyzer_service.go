package service

import (
	"context"
	"log/slog"
	"time"

	analyzerdomain "rehearse/internal/modules/analyzer/domain"
	analyzerout "rehearse/internal/modules/analyzer/port/out"
	"rehearse/internal/observability"
)

const (
	feedbackDisplayTime = 3 * time.Second
	dispatchLimit       = 3
)

// AnalyzerService turns one answer plus metrics into a feedback list and a
// 0-100 score, and pushes the highest-severity feedback into the sink.
type AnalyzerService struct {
	sink     analyzerout.FeedbackSink
	provider analyzerout.MetricsProvider
	obs      *observability.Metrics
	log      *slog.Logger
}

func NewAnalyzerService(sink analyzerout.FeedbackSink, provider analyzerout.MetricsProvider, obs *observability.Metrics, log *slog.Logger) *AnalyzerService {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyzerService{sink: sink, provider: provider, obs: obs, log: log}
}

// AnalyzeAnswer scores the answer. When metrics is nil it asks the external
// provider; a provider failure degrades to neutral metrics rather than
// failing the analysis.
func (s *AnalyzerService) AnalyzeAnswer(ctx context.Context, text string, metrics *analyzerdomain.Metrics, durationMS int) analyzerdomain.Result {
	resolved := s.resolveMetrics(ctx, text, metrics, durationMS)
	result := analyzerdomain.Evaluate(text, resolved)
	if s.obs != nil {
		s.obs.AnswerScore.Observe(result.Score)
		s.obs.AnswersAnalyzed.Inc()
	}
	s.dispatch(result)
	return result
}

func (s *AnalyzerService) resolveMetrics(ctx context.Context, text string, metrics *analyzerdomain.Metrics, durationMS int) analyzerdomain.Metrics {
	if metrics != nil {
		return *metrics
	}
	if s.provider != nil {
		provided, err := s.provider.GetMetrics(ctx, text, durationMS)
		if err == nil {
			return provided
		}
		s.log.Warn("metrics provider failed, using neutral metrics", "err", err)
	}
	return analyzerdomain.Metrics{Confidence: 0.5, Clarity: 0.5, Structure: 0.5, PaceWPM: 150}
}

// dispatch queues the top feedback items; the sink shows one at a time, so
// they display sequentially without overlap.
func (s *AnalyzerService) dispatch(result analyzerdomain.Result) {
	if s.sink == nil {
		return
	}
	for _, item := range analyzerdomain.TopBySeverity(result.Feedback, dispatchLimit) {
		s.sink.QueueFeedback(item.Message, item.Type, feedbackDisplayTime)
	}
}
