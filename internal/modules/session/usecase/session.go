package usecase

import (
	"context"
	"strings"

	"rehearse/internal/modules/session/domain"
	"rehearse/internal/modules/session/dto"
	sessionin "rehearse/internal/modules/session/port/in"
	"rehearse/internal/modules/session/service"
	apperrors "rehearse/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error) {
	if strings.TrimSpace(input.Company) == "" {
		return dto.SessionOutput{}, apperrors.ErrInvalidInput
	}
	target := input.TargetReadiness
	if target < 0 {
		target = 0
	}
	if target > 100 {
		target = 100
	}
	session := i.svc.CreateSession(ctx, input.Company, input.Difficulty, input.Mode, target)
	return dto.FromSession(session), nil
}

func (i *Interactor) AddQuestion(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.ErrInvalidInput
	}
	i.svc.AddQuestion(ctx, text)
	return nil
}

func (i *Interactor) AddAnswer(ctx context.Context, input dto.AnswerInput) error {
	i.svc.AddAnswer(ctx, input.Text, clamp01(input.Confidence), clamp01(input.Clarity), clamp01(input.Structure))
	return nil
}

func (i *Interactor) Complete(ctx context.Context, score float64, feedback []domain.Feedback) (dto.SessionOutput, error) {
	session, err := i.svc.CompleteSession(ctx, score, feedback)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.FromSession(session), nil
}

func (i *Interactor) Pause(ctx context.Context) error {
	i.svc.PauseSession(ctx)
	return nil
}

func (i *Interactor) Resume(ctx context.Context) error {
	i.svc.ResumeSession(ctx)
	return nil
}

func (i *Interactor) Delete(ctx context.Context, sessionID string) error {
	return i.svc.DeleteSession(ctx, sessionID)
}

func (i *Interactor) Get(_ context.Context, sessionID string) (domain.Session, error) {
	return i.svc.GetSession(sessionID)
}

func (i *Interactor) List(_ context.Context) ([]dto.SessionOutput, error) {
	sessions := i.svc.GetSessions()
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.FromSession(session))
	}
	return out, nil
}

func (i *Interactor) Current(_ context.Context) (dto.SessionOutput, bool) {
	session, ok := i.svc.CurrentSession()
	if !ok {
		return dto.SessionOutput{}, false
	}
	return dto.FromSession(session), true
}

func (i *Interactor) Stats(_ context.Context) (dto.StatsOutput, error) {
	stats := i.svc.GetStats()
	return dto.StatsOutput{
		TotalInterviews:  stats.TotalInterviews,
		AverageScore:     stats.AverageScore,
		BestScore:        stats.BestScore,
		TotalDuration:    stats.TotalDuration,
		Companies:        stats.Companies,
		ReadinessGainSum: stats.ReadinessGainSum,
		RecentTrend:      stats.RecentTrend,
		Readiness:        i.svc.Readiness(),
	}, nil
}

func (i *Interactor) Timeline(_ context.Context) ([]domain.TimelineEntry, error) {
	return i.svc.GetSessionTimeline(), nil
}

func (i *Interactor) Readiness(_ context.Context) float64 {
	return i.svc.Readiness()
}

func (i *Interactor) Export(_ context.Context) ([]byte, error) {
	return i.svc.ExportSessions()
}

func (i *Interactor) Import(ctx context.Context, blob []byte) (int, error) {
	return i.svc.ImportSessions(ctx, blob)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
