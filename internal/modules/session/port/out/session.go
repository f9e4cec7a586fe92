package out

import (
	"context"

	"rehearse/internal/modules/session/domain"
)

// SessionStore persists the full session collection under a fixed key.
// Implementations must treat a missing key as an empty collection.
type SessionStore interface {
	SaveAll(ctx context.Context, sessions []domain.Session) error
	LoadAll(ctx context.Context) ([]domain.Session, error)
	SaveReadiness(ctx context.Context, value float64) error
	LoadReadiness(ctx context.Context) (float64, error)
}
