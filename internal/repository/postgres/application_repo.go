package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// A soft-deleted resume is reported as no resume at all.
const applicationSelect = `
	SELECT a.id, a.applicant_id, TRIM(u.first_name || ' ' || u.last_name), u.email,
	       a.job_id, j.title, j.posted_by, r.id, a.resume_content, a.cover_letter,
	       a.status, a.matching_ratio, a.apply_time, a.last_update
	FROM applications a
	JOIN users u ON u.id = a.applicant_id
	JOIN jobs j ON j.id = a.job_id
	LEFT JOIN resumes r ON r.id = a.resume_id AND r.is_deleted = FALSE`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	var status string
	err := row.Scan(
		&a.ID, &a.ApplicantID, &a.ApplicantName, &a.ApplicantEmail,
		&a.JobID, &a.JobTitle, &a.JobPostedBy, &a.ResumeID, &a.ResumeContent, &a.CoverLetter,
		&status, &a.MatchingRatio, &a.AppliedAt, &a.LastUpdate,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.ApplicationStatus(status)
	return &a, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (applicant_id, job_id, resume_id, resume_content, cover_letter, status, matching_ratio, apply_time, last_update)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		app.ApplicantID, app.JobID, app.ResumeID, app.ResumeContent, app.CoverLetter,
		string(app.Status), app.MatchingRatio, app.AppliedAt, app.LastUpdate,
	).Scan(&app.ID)
	return translate(err)
}

func (r *applicationRepo) Exists(ctx context.Context, applicantID, jobID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE applicant_id = $1 AND job_id = $2)`,
		applicantID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) GetVisible(ctx context.Context, viewerID, id int64) (*domain.Application, error) {
	query := applicationSelect + ` WHERE a.id = $1 AND (a.applicant_id = $2 OR j.posted_by = $2)`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id, viewerID))
	if err != nil {
		return nil, translate(err)
	}
	return app, nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID int64, page domain.PageRequest) ([]domain.Application, int64, error) {
	apps, err := r.list(ctx,
		applicationSelect+` WHERE a.applicant_id = $1 ORDER BY a.last_update DESC, a.id DESC LIMIT $2 OFFSET $3`,
		applicantID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE applicant_id = $1`, applicantID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, ownerID, jobID int64, status *domain.ApplicationStatus, page domain.PageRequest) ([]domain.Application, int64, error) {
	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}

	apps, err := r.list(ctx,
		applicationSelect+`
		WHERE a.job_id = $1 AND j.posted_by = $2 AND ($3::text IS NULL OR a.status = $3::text)
		ORDER BY a.last_update DESC, a.id DESC LIMIT $4 OFFSET $5`,
		jobID, ownerID, statusArg, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id
                   WHERE a.job_id = $1 AND j.posted_by = $2 AND ($3::text IS NULL OR a.status = $3::text)`
	if err := r.db.QueryRow(ctx, countQuery, jobID, ownerID, statusArg).Scan(&total); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepo) ListAllByJob(ctx context.Context, ownerID, jobID int64) ([]domain.Application, error) {
	return r.list(ctx,
		applicationSelect+` WHERE a.job_id = $1 AND j.posted_by = $2 ORDER BY a.apply_time, a.id`,
		jobID, ownerID,
	)
}

func (r *applicationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, at time.Time) error {
	query := `UPDATE applications SET status = $2, last_update = $3 WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, id, string(status), at))
}
