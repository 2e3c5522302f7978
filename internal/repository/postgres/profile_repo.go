package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userSkillRepo struct {
	db *pgxpool.Pool
}

func NewUserSkillRepository(db *pgxpool.Pool) domain.UserSkillRepository {
	return &userSkillRepo{db: db}
}

func (r *userSkillRepo) List(ctx context.Context, userID int64) ([]domain.Skill, error) {
	query := `SELECT s.id, s.name, s.search_name, s.category, s.created_at
              FROM skills s
              JOIN user_skills us ON us.skill_id = s.id
              WHERE us.user_id = $1
              ORDER BY s.name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

// Add is idempotent.
func (r *userSkillRepo) Add(ctx context.Context, userID, skillID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_skills (user_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, skillID)
	return translate(err)
}

func (r *userSkillRepo) Remove(ctx context.Context, userID, skillID int64) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`, userID, skillID))
}

func (r *userSkillRepo) Names(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT s.name FROM skills s JOIN user_skills us ON us.skill_id = s.id WHERE us.user_id = $1 ORDER BY s.name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type experienceRepo struct {
	db *pgxpool.Pool
}

func NewExperienceRepository(db *pgxpool.Pool) domain.ExperienceRepository {
	return &experienceRepo{db: db}
}

const experienceColumns = `id, user_id, title, organization, start_date, end_date, description`

func (r *experienceRepo) List(ctx context.Context, userID int64) ([]domain.Experience, error) {
	rows, err := r.db.Query(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE user_id = $1 ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Experience{}
	for rows.Next() {
		var e domain.Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Organization, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *experienceRepo) Get(ctx context.Context, userID, id int64) (*domain.Experience, error) {
	var e domain.Experience
	err := r.db.QueryRow(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&e.ID, &e.UserID, &e.Title, &e.Organization, &e.StartDate, &e.EndDate, &e.Description)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *experienceRepo) Create(ctx context.Context, e *domain.Experience) error {
	query := `INSERT INTO experiences (user_id, title, organization, start_date, end_date, description)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return translate(r.db.QueryRow(ctx, query, e.UserID, e.Title, e.Organization, e.StartDate, e.EndDate, e.Description).Scan(&e.ID))
}

func (r *experienceRepo) Update(ctx context.Context, e *domain.Experience) error {
	query := `UPDATE experiences SET title = $3, organization = $4, start_date = $5, end_date = $6, description = $7
              WHERE id = $1 AND user_id = $2`
	return requireAffected(r.db.Exec(ctx, query, e.ID, e.UserID, e.Title, e.Organization, e.StartDate, e.EndDate, e.Description))
}

func (r *experienceRepo) Delete(ctx context.Context, userID, id int64) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND user_id = $2`, id, userID))
}

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, user_id, title, description, project_url, start_date, end_date, technologies`

func (r *projectRepo) List(ctx context.Context, userID int64) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY start_date DESC NULLS LAST, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.ProjectURL, &p.StartDate, &p.EndDate, &p.Technologies); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectRepo) Get(ctx context.Context, userID, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.ProjectURL, &p.StartDate, &p.EndDate, &p.Technologies)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (user_id, title, description, project_url, start_date, end_date, technologies)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return translate(r.db.QueryRow(ctx, query,
		p.UserID, p.Title, p.Description, p.ProjectURL, p.StartDate, p.EndDate, technologies(p),
	).Scan(&p.ID))
}

func (r *projectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET title = $3, description = $4, project_url = $5, start_date = $6, end_date = $7, technologies = $8
              WHERE id = $1 AND user_id = $2`
	return requireAffected(r.db.Exec(ctx, query,
		p.ID, p.UserID, p.Title, p.Description, p.ProjectURL, p.StartDate, p.EndDate, technologies(p),
	))
}

func (r *projectRepo) Delete(ctx context.Context, userID, id int64) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID))
}

// the column is NOT NULL; a nil slice would be written as NULL
func technologies(p *domain.Project) []string {
	if p.Technologies == nil {
		return []string{}
	}
	return p.Technologies
}

type socialLinkRepo struct {
	db *pgxpool.Pool
}

func NewSocialLinkRepository(db *pgxpool.Pool) domain.SocialLinkRepository {
	return &socialLinkRepo{db: db}
}

func (r *socialLinkRepo) List(ctx context.Context, userID int64) ([]domain.SocialLink, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, url, social_type FROM social_links WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SocialLink{}
	for rows.Next() {
		var l domain.SocialLink
		var socialType string
		if err := rows.Scan(&l.ID, &l.UserID, &l.URL, &socialType); err != nil {
			return nil, err
		}
		l.SocialType = domain.SocialType(socialType)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *socialLinkRepo) Get(ctx context.Context, userID, id int64) (*domain.SocialLink, error) {
	var l domain.SocialLink
	var socialType string
	err := r.db.QueryRow(ctx, `SELECT id, user_id, url, social_type FROM social_links WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&l.ID, &l.UserID, &l.URL, &socialType)
	if err != nil {
		return nil, translate(err)
	}
	l.SocialType = domain.SocialType(socialType)
	return &l, nil
}

func (r *socialLinkRepo) Create(ctx context.Context, l *domain.SocialLink) error {
	query := `INSERT INTO social_links (user_id, url, social_type) VALUES ($1, $2, $3) RETURNING id`
	return translate(r.db.QueryRow(ctx, query, l.UserID, l.URL, string(l.SocialType)).Scan(&l.ID))
}

func (r *socialLinkRepo) Update(ctx context.Context, l *domain.SocialLink) error {
	query := `UPDATE social_links SET url = $3, social_type = $4 WHERE id = $1 AND user_id = $2`
	return requireAffected(r.db.Exec(ctx, query, l.ID, l.UserID, l.URL, string(l.SocialType)))
}

func (r *socialLinkRepo) Delete(ctx context.Context, userID, id int64) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM social_links WHERE id = $1 AND user_id = $2`, id, userID))
}
