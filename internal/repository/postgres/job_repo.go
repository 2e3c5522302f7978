package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, title, type, seniority, model, status, location, description, posted_by, created_at, updated_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var jobType, seniority, model, status string
	err := row.Scan(
		&job.ID, &job.Title, &jobType, &seniority, &model, &status,
		&job.Location, &job.Description, &job.PostedBy, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Type = domain.JobType(jobType)
	job.Seniority = domain.JobSeniority(seniority)
	job.Model = domain.JobModel(model)
	job.Status = domain.JobStatus(status)
	job.Skills = []domain.Skill{}
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job, skillIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO jobs (title, type, seniority, model, status, location, description, posted_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = tx.QueryRow(ctx, query,
		job.Title, string(job.Type), string(job.Seniority), string(job.Model), string(job.Status),
		job.Location, job.Description, job.PostedBy, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return translate(err)
	}

	if err := replaceJobSkills(ctx, tx, job.ID, skillIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return r.attachSkills(ctx, []*domain.Job{job})
}

func replaceJobSkills(ctx context.Context, tx pgx.Tx, jobID int64, skillIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, jobID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO job_skills (job_id, skill_id) SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING`,
		jobID, skillIDs,
	)
	return translate(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	if err := r.attachSkills(ctx, []*domain.Job{job}); err != nil {
		return nil, err
	}
	return job, nil
}

// GetByIDs returns the jobs that exist, in no particular order.
func (r *jobRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Job, error) {
	if len(ids) == 0 {
		return []domain.Job{}, nil
	}
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1::bigint[])`, ids)
}

func (r *jobRepo) ListByStatus(ctx context.Context, status domain.JobStatus, page domain.PageRequest) ([]domain.Job, int64, error) {
	jobs, err := r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		string(status), page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) ListByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]domain.Job, int64, error) {
	jobs, err := r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE posted_by = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		ownerID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE posted_by = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) list(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachSkills(ctx, ptrs); err != nil {
		return nil, err
	}
	jobs := make([]domain.Job, 0, len(ptrs))
	for _, j := range ptrs {
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// attachSkills loads the skill sets of all given jobs in one query.
func (r *jobRepo) attachSkills(ctx context.Context, jobs []*domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Job, len(jobs))
	ids := make([]int64, 0, len(jobs))
	for _, j := range jobs {
		j.Skills = []domain.Skill{}
		byID[j.ID] = j
		ids = append(ids, j.ID)
	}

	query := `SELECT js.job_id, s.id, s.name, s.search_name, s.category, s.created_at
              FROM job_skills js
              JOIN skills s ON s.id = js.skill_id
              WHERE js.job_id = ANY($1::bigint[])
              ORDER BY s.name`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var jobID int64
		var s domain.Skill
		if err := rows.Scan(&jobID, &s.ID, &s.Name, &s.SearchName, &s.Category, &s.CreatedAt); err != nil {
			return err
		}
		if j, ok := byID[jobID]; ok {
			j.Skills = append(j.Skills, s)
		}
	}
	return rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job, skillIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE jobs
              SET title = $2, type = $3, seniority = $4, model = $5, location = $6, description = $7, updated_at = $8
              WHERE id = $1`
	if err := requireAffected(tx.Exec(ctx, query,
		job.ID, job.Title, string(job.Type), string(job.Seniority), string(job.Model),
		job.Location, job.Description, job.UpdatedAt,
	)); err != nil {
		return err
	}

	if skillIDs != nil {
		if err := replaceJobSkills(ctx, tx, job.ID, skillIDs); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return r.attachSkills(ctx, []*domain.Job{job})
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	query := `UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, id, string(status), time.Now().UTC()))
}
