package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	analyzerdomain "rehearse/internal/modules/analyzer/domain"
	"rehearse/internal/modules/analyzer/service"
	sessiondomain "rehearse/internal/modules/session/domain"
)

type recordingSink struct {
	messages  []string
	durations []time.Duration
}

func (r *recordingSink) QueueFeedback(message string, _ sessiondomain.FeedbackType, duration time.Duration) {
	r.messages = append(r.messages, message)
	r.durations = append(r.durations, duration)
}

type fakeProvider struct {
	metrics analyzerdomain.Metrics
	err     error
	calls   int
}

func (f *fakeProvider) GetMetrics(context.Context, string, int) (analyzerdomain.Metrics, error) {
	f.calls++
	return f.metrics, f.err
}

func TestAnalyzeUsesSuppliedMetrics(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{}
	svc := service.NewAnalyzerService(&recordingSink{}, provider, nil, nil)
	m := analyzerdomain.Metrics{Confidence: 0.9, Clarity: 0.9, Structure: 0.9, PaceWPM: 150}
	result := svc.AnalyzeAnswer(context.Background(), "a perfectly ordinary answer of reasonable length here", &m, 0)
	if provider.calls != 0 {
		t.Fatalf("provider must not be consulted when metrics are supplied")
	}
	if result.Metrics != m {
		t.Fatalf("result should carry the supplied metrics, got %+v", result.Metrics)
	}
}

func TestAnalyzeFallsBackToProvider(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{metrics: analyzerdomain.Metrics{Confidence: 0.7, Clarity: 0.6, Structure: 0.8, PaceWPM: 140}}
	svc := service.NewAnalyzerService(&recordingSink{}, provider, nil, nil)
	result := svc.AnalyzeAnswer(context.Background(), "an answer without caller metrics, long enough to pass", nil, 4000)
	if provider.calls != 1 {
		t.Fatalf("provider should be consulted once, got %d", provider.calls)
	}
	if result.Metrics != provider.metrics {
		t.Fatalf("expected provider metrics, got %+v", result.Metrics)
	}
}

func TestAnalyzeDegradesToNeutralOnProviderError(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{err: errors.New("plugin crashed")}
	svc := service.NewAnalyzerService(&recordingSink{}, provider, nil, nil)
	result := svc.AnalyzeAnswer(context.Background(), "an answer whose provider is broken today", nil, 0)
	neutral := analyzerdomain.Metrics{Confidence: 0.5, Clarity: 0.5, Structure: 0.5, PaceWPM: 150}
	if result.Metrics != neutral {
		t.Fatalf("expected neutral metrics on provider failure, got %+v", result.Metrics)
	}
}

func TestAnalyzeDispatchesTopThree(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	svc := service.NewAnalyzerService(sink, nil, nil, nil)
	// Short answer with uniformly poor metrics produces more than three notes.
	m := analyzerdomain.Metrics{Confidence: 0.2, Clarity: 0.2, Structure: 0.2, Hesitation: 0.5, PaceWPM: 250}
	result := svc.AnalyzeAnswer(context.Background(), "bad", &m, 0)
	if len(result.Feedback) <= 3 {
		t.Fatalf("test setup should generate more than three notes, got %d", len(result.Feedback))
	}
	if len(sink.messages) != 3 {
		t.Fatalf("exactly three notes must reach the sink, got %d", len(sink.messages))
	}
	for _, d := range sink.durations {
		if d <= 0 {
			t.Fatalf("queued feedback needs a positive display time")
		}
	}
}

func TestAnalyzeWithoutSink(t *testing.T) {
	t.Parallel()
	svc := service.NewAnalyzerService(nil, nil, nil, nil)
	m := analyzerdomain.Metrics{Confidence: 0.5, Clarity: 0.5, Structure: 0.5, PaceWPM: 150}
	result := svc.AnalyzeAnswer(context.Background(), "sink-less analysis must still score", &m, 0)
	if result.Score <= 0 {
		t.Fatalf("expected a score, got %v", result.Score)
	}
}
