package domain

import (
	"strings"
	"testing"

	sessiondomain "rehearse/internal/modules/session/domain"
)

func TestEvaluateEmptyAnswerScoresLow(t *testing.T) {
	t.Parallel()
	result := Evaluate("", Metrics{Confidence: 0.5, Clarity: 0.5, Structure: 0.5, PaceWPM: 150})
	if result.Score > 50 {
		t.Fatalf("empty answer must score at most 50, got %v", result.Score)
	}
	found := false
	for _, item := range result.Feedback {
		if item.Severity == sessiondomain.SeverityCritical && strings.Contains(item.Message, "too short") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a critical too-short note, got %+v", result.Feedback)
	}
}

func TestEvaluateStrongStarAnswerScoresHigh(t *testing.T) {
	t.Parallel()
	answer := "Situation: our checkout was failing under load. My task was to fix it. " +
		"Action: I implemented a queue and led the rollout. " +
		"Result: we reduced errors by 40% and revenue recovered."
	result := Evaluate(answer, Metrics{Confidence: 0.9, Clarity: 0.9, Structure: 0.9, Hesitation: 0.1, PaceWPM: 150})
	if result.Score < 90 {
		t.Fatalf("strong STAR answer should score at least 90, got %v", result.Score)
	}
	star := false
	for _, item := range result.Feedback {
		if item.Type == sessiondomain.FeedbackSuccess && strings.Contains(item.Message, "STAR") {
			star = true
		}
	}
	if !star {
		t.Fatalf("expected STAR success note, got %+v", result.Feedback)
	}
}

func TestEvaluateFlagsHesitationAndPace(t *testing.T) {
	t.Parallel()
	answer := strings.Repeat("I worked on a data pipeline and it went fine overall. ", 4)
	result := Evaluate(answer, Metrics{Confidence: 0.6, Clarity: 0.6, Structure: 0.6, Hesitation: 0.5, PaceWPM: 250})
	var hesitation, pace bool
	for _, item := range result.Feedback {
		if strings.Contains(item.Message, "hesitation") {
			hesitation = true
		}
		if strings.Contains(item.Message, "pace") {
			pace = true
		}
	}
	if !hesitation || !pace {
		t.Fatalf("expected hesitation and pace notes, got %+v", result.Feedback)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()
	answer := "I led the migration and we delivered ahead of schedule."
	m := Metrics{Confidence: 0.7, Clarity: 0.7, Structure: 0.7, PaceWPM: 150}
	first := Evaluate(answer, m)
	second := Evaluate(answer, m)
	if first.Score != second.Score || len(first.Feedback) != len(second.Feedback) {
		t.Fatalf("evaluate must be deterministic: %v vs %v", first.Score, second.Score)
	}
}

func TestTopBySeverity(t *testing.T) {
	t.Parallel()
	feedback := []sessiondomain.Feedback{
		{Message: "pos-1", Severity: sessiondomain.SeverityPositive},
		{Message: "adv-1", Severity: sessiondomain.SeverityAdvisory},
		{Message: "crit-1", Severity: sessiondomain.SeverityCritical},
		{Message: "adv-2", Severity: sessiondomain.SeverityAdvisory},
		{Message: "crit-2", Severity: sessiondomain.SeverityCritical},
	}
	top := TopBySeverity(feedback, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 items, got %d", len(top))
	}
	if top[0].Message != "crit-1" || top[1].Message != "crit-2" || top[2].Message != "adv-1" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if got := TopBySeverity(feedback[:1], 3); len(got) != 1 {
		t.Fatalf("short input should pass through, got %d", len(got))
	}
	if len(feedback) != 5 || feedback[0].Message != "pos-1" {
		t.Fatalf("input slice must not be reordered")
	}
}
