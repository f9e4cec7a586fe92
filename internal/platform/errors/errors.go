package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionCompleted = errors.New("session already completed")
	ErrNoSurface        = errors.New("render surface unavailable")
)
