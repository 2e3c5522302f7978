package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type skillRepo struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) domain.SkillRepository {
	return &skillRepo{db: db}
}

const skillColumns = `id, name, search_name, category, created_at`

func scanSkill(row pgx.Row) (*domain.Skill, error) {
	var s domain.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.SearchName, &s.Category, &s.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *skillRepo) Create(ctx context.Context, skill *domain.Skill) error {
	query := `INSERT INTO skills (name, search_name, category, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, skill.Name, skill.SearchName, skill.Category, skill.CreatedAt).Scan(&skill.ID)
	return translate(err)
}

func (r *skillRepo) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	return scanSkill(r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
}

func (r *skillRepo) GetBySearchName(ctx context.Context, searchName string) (*domain.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE search_name = $1 ORDER BY id LIMIT 1`
	return scanSkill(r.db.QueryRow(ctx, query, searchName))
}

func (r *skillRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Skill, int64, error) {
	rows, err := r.db.Query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY name LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	skills, err := collectSkills(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return skills, total, nil
}

func (r *skillRepo) Update(ctx context.Context, skill *domain.Skill) error {
	query := `UPDATE skills SET name = $2, search_name = $3, category = $4 WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, skill.ID, skill.Name, skill.SearchName, skill.Category))
}

func (r *skillRepo) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills WHERE id = ANY($1::bigint[])`, ids).Scan(&n)
	return n, err
}

func collectSkills(rows pgx.Rows) ([]domain.Skill, error) {
	defer rows.Close()
	skills := []domain.Skill{}
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.SearchName, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
