package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

// Every read below filters is_deleted = FALSE.
const resumeColumns = `id, user_id, storage_key, file_name, size_bytes, is_deleted, created_at`

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var r domain.Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.StorageKey, &r.FileName, &r.SizeBytes, &r.IsDeleted, &r.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (r *resumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	query := `INSERT INTO resumes (user_id, storage_key, file_name, size_bytes, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return translate(r.db.QueryRow(ctx, query,
		resume.UserID, resume.StorageKey, resume.FileName, resume.SizeBytes, resume.CreatedAt,
	).Scan(&resume.ID))
}

func (r *resumeRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	return scanResume(r.db.QueryRow(ctx, query, id, userID))
}

// GetActiveByID is used after application visibility was established by the caller.
func (r *resumeRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND is_deleted = FALSE`
	return scanResume(r.db.QueryRow(ctx, query, id))
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND is_deleted = FALSE ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Resume{}
	for rows.Next() {
		var res domain.Resume
		if err := rows.Scan(&res.ID, &res.UserID, &res.StorageKey, &res.FileName, &res.SizeBytes, &res.IsDeleted, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *resumeRepo) GetLatest(ctx context.Context, userID int64) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND is_deleted = FALSE ORDER BY created_at DESC, id DESC LIMIT 1`
	return scanResume(r.db.QueryRow(ctx, query, userID))
}

func (r *resumeRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	query := `UPDATE resumes SET is_deleted = TRUE WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	return requireAffected(r.db.Exec(ctx, query, id, userID))
}
