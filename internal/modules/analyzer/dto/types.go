package dto

import (
	analyzerdomain "rehearse/internal/modules/analyzer/domain"
	sessiondomain "rehearse/internal/modules/session/domain"
)

type AnalyzeInput struct {
	Text string
	// Metrics may be nil; the analyzer then consults its provider, falling
	// back to neutral values.
	Metrics    *analyzerdomain.Metrics
	DurationMS int
}

type AnalyzeOutput struct {
	Score    float64
	Feedback []sessiondomain.Feedback
	Metrics  analyzerdomain.Metrics
}
