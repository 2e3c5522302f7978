package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type skillUsecase struct {
	skillRepo domain.SkillRepository
}

func NewSkillUsecase(skillRepo domain.SkillRepository) domain.SkillUsecase {
	return &skillUsecase{skillRepo: skillRepo}
}

func (uc *skillUsecase) Create(ctx context.Context, in domain.SkillInput) (*domain.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if domain.NormalizeSkillName(name) == "" {
		return nil, apperror.BadRequest("Skill name is required")
	}

	skill := &domain.Skill{
		Name:       name,
		SearchName: domain.NormalizeSkillName(name),
		Category:   in.Category,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.skillRepo.Create(ctx, skill); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Skill with name '" + name + "' already exists")
		}
		return nil, apperror.Internal(err)
	}
	return skill, nil
}

func (uc *skillUsecase) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Skill], error) {
	skills, total, err := uc.skillRepo.List(ctx, page)
	if err != nil {
		return domain.Page[domain.Skill]{}, apperror.Internal(err)
	}
	return domain.NewPage(skills, page, total), nil
}

// GetByName matches on the normalized key, so "Java Programming" finds "javaprogramming".
func (uc *skillUsecase) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	key := domain.NormalizeSkillName(name)
	if key == "" {
		return nil, apperror.BadRequest("Skill name is required")
	}
	skill, err := uc.skillRepo.GetBySearchName(ctx, key)
	if err != nil {
		return nil, notFoundOr(err, "Skill not found")
	}
	return skill, nil
}

func (uc *skillUsecase) Update(ctx context.Context, id int64, in domain.SkillInput) (*domain.Skill, error) {
	skill, err := uc.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Skill not found")
	}

	name := strings.TrimSpace(in.Name)
	if domain.NormalizeSkillName(name) == "" {
		return nil, apperror.BadRequest("Skill name is required")
	}
	skill.Name = name
	skill.SearchName = domain.NormalizeSkillName(name)
	skill.Category = in.Category

	if err := uc.skillRepo.Update(ctx, skill); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Skill with name '" + name + "' already exists")
		}
		return nil, notFoundOr(err, "Skill not found")
	}
	return skill, nil
}

// FindOrCreate resolves a free-text skill to a catalog entry, creating it on first use.
func (uc *skillUsecase) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	skill, err := uc.GetByName(ctx, name)
	if err == nil {
		return skill, nil
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		return nil, err
	}

	skill, err = uc.Create(ctx, domain.SkillInput{Name: name})
	if err == nil {
		return skill, nil
	}
	// lost a race with a concurrent insert of the same name
	if errors.As(err, &appErr) && appErr.Code == 409 {
		return uc.GetByName(ctx, name)
	}
	return nil, err
}
