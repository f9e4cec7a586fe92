package in

import (
	"context"

	"rehearse/internal/modules/analyzer/dto"
)

type Usecase interface {
	AnalyzeAnswer(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error)
}
