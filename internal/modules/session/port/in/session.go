package in

import (
	"context"

	"rehearse/internal/modules/session/domain"
	"rehearse/internal/modules/session/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.SessionOutput, error)
	AddQuestion(ctx context.Context, text string) error
	AddAnswer(ctx context.Context, input dto.AnswerInput) error
	Complete(ctx context.Context, score float64, feedback []domain.Feedback) (dto.SessionOutput, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Delete(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
	Current(ctx context.Context) (dto.SessionOutput, bool)
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Timeline(ctx context.Context) ([]domain.TimelineEntry, error)
	Readiness(ctx context.Context) float64
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, blob []byte) (int, error)
}
