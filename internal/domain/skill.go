package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
)

type Skill struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SearchName string    `json:"-"`
	Category   *string   `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizeSkillName derives the lookup key of a skill: lowercased with all whitespace removed.
func NormalizeSkillName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))
}

type SkillInput struct {
	Name     string
	Category *string
}

type SkillRepository interface {
	Create(ctx context.Context, skill *Skill) error
	GetByID(ctx context.Context, id int64) (*Skill, error)
	// GetBySearchName returns the lowest-id skill whose key matches.
	GetBySearchName(ctx context.Context, searchName string) (*Skill, error)
	List(ctx context.Context, page PageRequest) ([]Skill, int64, error)
	Update(ctx context.Context, skill *Skill) error
	CountByIDs(ctx context.Context, ids []int64) (int, error)
}

type SkillUsecase interface {
	Create(ctx context.Context, in SkillInput) (*Skill, error)
	List(ctx context.Context, page PageRequest) (Page[Skill], error)
	GetByName(ctx context.Context, name string) (*Skill, error)
	Update(ctx context.Context, id int64, in SkillInput) (*Skill, error)
	FindOrCreate(ctx context.Context, name string) (*Skill, error)
}
