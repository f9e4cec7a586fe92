package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rehearse/internal/modules/session/domain"
	"rehearse/internal/modules/session/dto"
	sessionin "rehearse/internal/modules/session/port/in"
	"rehearse/internal/modules/session/service"
	"rehearse/internal/modules/session/usecase"
	apperrors "rehearse/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return string(rune('a' + s.n - 1))
}

type nopStore struct{}

func (nopStore) SaveAll(context.Context, []domain.Session) error { return nil }

func (nopStore) LoadAll(context.Context) ([]domain.Session, error) { return nil, nil }

func (nopStore) SaveReadiness(context.Context, float64) error { return nil }

func (nopStore) LoadReadiness(context.Context) (float64, error) { return 0, nil }

func newUsecase() sessionin.Usecase {
	clk := fixedClock{now: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	return usecase.NewInteractor(service.NewSessionService(clk, &seqID{}, nopStore{}, nil, 0.1))
}

func TestCreateRejectsEmptyCompany(t *testing.T) {
	t.Parallel()
	uc := newUsecase()
	if _, err := uc.Create(context.Background(), dto.CreateInput{Company: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateClampsTargetReadiness(t *testing.T) {
	t.Parallel()
	uc := newUsecase()
	out, err := uc.Create(context.Background(), dto.CreateInput{Company: "Acme", TargetReadiness: 180})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Company != "Acme" {
		t.Fatalf("unexpected output: %+v", out)
	}
	cur, ok := uc.Current(context.Background())
	if !ok || cur.ID != out.ID {
		t.Fatalf("created session should be current")
	}
}

func TestAddQuestionRejectsEmptyText(t *testing.T) {
	t.Parallel()
	uc := newUsecase()
	if _, err := uc.Create(context.Background(), dto.CreateInput{Company: "Acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uc.AddQuestion(context.Background(), "  "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddAnswerClampsMetrics(t *testing.T) {
	t.Parallel()
	uc := newUsecase()
	ctx := context.Background()
	if _, err := uc.Create(ctx, dto.CreateInput{Company: "Acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uc.AddQuestion(ctx, "q"); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if err := uc.AddAnswer(ctx, dto.AnswerInput{Text: "answer", Confidence: 2, Clarity: -1, Structure: 0.5}); err != nil {
		t.Fatalf("add answer: %v", err)
	}
	cur, _ := uc.Current(ctx)
	if cur.AnswerCount != 1 {
		t.Fatalf("answer should be recorded, got %d", cur.AnswerCount)
	}
}
