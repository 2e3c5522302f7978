package domain

import (
	"context"
	"time"
)

const ActivationTokenTTL = 24 * time.Hour

type ActivationToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

func (t *ActivationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ActivationTokenRepository interface {
	Create(ctx context.Context, token *ActivationToken) error
	GetByToken(ctx context.Context, token string) (*ActivationToken, error)
	MarkUsed(ctx context.Context, id int64) error
	// InvalidateAllForUser marks every outstanding token of the user as used.
	InvalidateAllForUser(ctx context.Context, userID int64) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
