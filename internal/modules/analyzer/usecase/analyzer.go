package usecase

import (
	"context"

	"rehearse/internal/modules/analyzer/dto"
	analyzerin "rehearse/internal/modules/analyzer/port/in"
	"rehearse/internal/modules/analyzer/service"
)

type Interactor struct {
	svc *service.AnalyzerService
}

func NewInteractor(svc *service.AnalyzerService) analyzerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AnalyzeAnswer(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error) {
	result := i.svc.AnalyzeAnswer(ctx, input.Text, input.Metrics, input.DurationMS)
	return dto.AnalyzeOutput{Score: result.Score, Feedback: result.Feedback, Metrics: result.Metrics}, nil
}
