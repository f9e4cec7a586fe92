package dto

import (
	"time"

	"rehearse/internal/modules/session/domain"
)

type CreateInput struct {
	Company         string
	Difficulty      string
	Mode            string
	TargetReadiness float64
}

type AnswerInput struct {
	Text       string
	Confidence float64
	Clarity    float64
	Structure  float64
}

type SessionOutput struct {
	ID            string
	Company       string
	Difficulty    string
	Mode          string
	Status        domain.Status
	StartedAt     time.Time
	EndedAt       time.Time
	Duration      time.Duration
	QuestionCount int
	AnswerCount   int
	Score         float64
	ReadinessGain float64
}

type StatsOutput struct {
	TotalInterviews  int
	AverageScore     float64
	BestScore        float64
	TotalDuration    time.Duration
	Companies        []string
	ReadinessGainSum float64
	RecentTrend      []float64
	Readiness        float64
}

func FromSession(s domain.Session) SessionOutput {
	return SessionOutput{
		ID:            s.ID,
		Company:       s.Company,
		Difficulty:    s.Difficulty,
		Mode:          s.Mode,
		Status:        s.Status,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		Duration:      s.Duration,
		QuestionCount: len(s.Questions),
		AnswerCount:   len(s.Answers),
		Score:         s.Score,
		ReadinessGain: s.ReadinessGain,
	}
}
