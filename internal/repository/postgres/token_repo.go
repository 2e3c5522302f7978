package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type activationTokenRepo struct {
	db *pgxpool.Pool
}

func NewActivationTokenRepository(db *pgxpool.Pool) domain.ActivationTokenRepository {
	return &activationTokenRepo{db: db}
}

func (r *activationTokenRepo) Create(ctx context.Context, t *domain.ActivationToken) error {
	query := `INSERT INTO activation_tokens (user_id, token, used, created_at, expires_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query, t.UserID, t.Token, t.Used, t.CreatedAt, t.ExpiresAt).Scan(&t.ID)
	return translate(err)
}

func (r *activationTokenRepo) GetByToken(ctx context.Context, token string) (*domain.ActivationToken, error) {
	query := `SELECT id, user_id, token, used, created_at, expires_at FROM activation_tokens WHERE token = $1`
	var t domain.ActivationToken
	err := r.db.QueryRow(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.Used, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *activationTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	return requireAffected(r.db.Exec(ctx, `UPDATE activation_tokens SET used = TRUE WHERE id = $1`, id))
}

func (r *activationTokenRepo) InvalidateAllForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE activation_tokens SET used = TRUE WHERE user_id = $1 AND used = FALSE`, userID)
	return err
}

// DeleteStale removes tokens that are used or expired before the cutoff.
func (r *activationTokenRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM activation_tokens WHERE expires_at < $1 OR (used = TRUE AND created_at < $1)`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
