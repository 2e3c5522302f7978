package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Experience struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"-"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Description  *string    `json:"description"`
}

type Project struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"-"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	ProjectURL   *string    `json:"project_url"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Technologies []string   `json:"technologies"`
}

type SocialType string

const (
	SocialGithub    SocialType = "GITHUB"
	SocialLinkedIn  SocialType = "LINKEDIN"
	SocialPortfolio SocialType = "PORTFOLIO"
	SocialTwitter   SocialType = "TWITTER"
	SocialOther     SocialType = "OTHER"
)

func ParseSocialType(s string) (SocialType, error) {
	t := SocialType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case SocialGithub, SocialLinkedIn, SocialPortfolio, SocialTwitter, SocialOther:
		return t, nil
	}
	return "", fmt.Errorf("unknown social type %q", s)
}

func (t SocialType) MarshalText() ([]byte, error) { return []byte(enumToAPI(string(t))), nil }

type SocialLink struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"-"`
	URL        string     `json:"url"`
	SocialType SocialType `json:"social_type"`
}

// UserProfile is the "me" projection assembled from the user row and its skills.
type UserProfile struct {
	User   *User   `json:"user"`
	Skills []Skill `json:"skills"`
}

type UpdateProfileInput struct {
	FirstName  string
	LastName   string
	University *string
}

type UserSkillRepository interface {
	List(ctx context.Context, userID int64) ([]Skill, error)
	Add(ctx context.Context, userID, skillID int64) error
	Remove(ctx context.Context, userID, skillID int64) error
	Names(ctx context.Context, userID int64) ([]string, error)
}

// The three record repositories below scope every read and write by owner.
type ExperienceRepository interface {
	List(ctx context.Context, userID int64) ([]Experience, error)
	Get(ctx context.Context, userID, id int64) (*Experience, error)
	Create(ctx context.Context, exp *Experience) error
	Update(ctx context.Context, exp *Experience) error
	Delete(ctx context.Context, userID, id int64) error
}

type ProjectRepository interface {
	List(ctx context.Context, userID int64) ([]Project, error)
	Get(ctx context.Context, userID, id int64) (*Project, error)
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, userID, id int64) error
}

type SocialLinkRepository interface {
	List(ctx context.Context, userID int64) ([]SocialLink, error)
	Get(ctx context.Context, userID, id int64) (*SocialLink, error)
	Create(ctx context.Context, link *SocialLink) error
	Update(ctx context.Context, link *SocialLink) error
	Delete(ctx context.Context, userID, id int64) error
}

type ProfileUsecase interface {
	GetMe(ctx context.Context, p Principal) (*UserProfile, error)
	UpdateMe(ctx context.Context, p Principal, in UpdateProfileInput) (*User, error)

	ListSkills(ctx context.Context, p Principal) ([]Skill, error)
	AddSkill(ctx context.Context, p Principal, skillID int64) error
	AddSkillByName(ctx context.Context, p Principal, name string) (*Skill, error)
	RemoveSkill(ctx context.Context, p Principal, skillID int64) error

	ListExperiences(ctx context.Context, p Principal) ([]Experience, error)
	GetExperience(ctx context.Context, p Principal, id int64) (*Experience, error)
	CreateExperience(ctx context.Context, p Principal, exp *Experience) error
	UpdateExperience(ctx context.Context, p Principal, exp *Experience) error
	DeleteExperience(ctx context.Context, p Principal, id int64) error

	ListProjects(ctx context.Context, p Principal) ([]Project, error)
	GetProject(ctx context.Context, p Principal, id int64) (*Project, error)
	CreateProject(ctx context.Context, p Principal, project *Project) error
	UpdateProject(ctx context.Context, p Principal, project *Project) error
	DeleteProject(ctx context.Context, p Principal, id int64) error

	ListSocialLinks(ctx context.Context, p Principal) ([]SocialLink, error)
	GetSocialLink(ctx context.Context, p Principal, id int64) (*SocialLink, error)
	CreateSocialLink(ctx context.Context, p Principal, link *SocialLink) error
	UpdateSocialLink(ctx context.Context, p Principal, link *SocialLink) error
	DeleteSocialLink(ctx context.Context, p Principal, id int64) error
}
