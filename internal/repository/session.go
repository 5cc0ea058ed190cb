package repository

import (
	"context"
	"time"

	"tasktracker/internal/domain"
)

// SessionRepository stores server-side session records keyed by session ID.
type SessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
