package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository describes session storage needs from use cases.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	// Update applies fn to the stored session atomically and persists the
	// result unless fn returns an error.
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context, idleBefore time.Time) ([]string, error)
}
