package usecase

import (
	"context"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type ProfileDeps struct {
	Users       domain.UserRepository
	UserSkills  domain.UserSkillRepository
	Skills      domain.SkillRepository
	SkillUC     domain.SkillUsecase
	Experiences domain.ExperienceRepository
	Projects    domain.ProjectRepository
	SocialLinks domain.SocialLinkRepository
}

type profileUsecase struct {
	userRepo       domain.UserRepository
	userSkillRepo  domain.UserSkillRepository
	skillRepo      domain.SkillRepository
	skillUC        domain.SkillUsecase
	experienceRepo domain.ExperienceRepository
	projectRepo    domain.ProjectRepository
	socialLinkRepo domain.SocialLinkRepository
}

func NewProfileUsecase(deps ProfileDeps) domain.ProfileUsecase {
	return &profileUsecase{
		userRepo:       deps.Users,
		userSkillRepo:  deps.UserSkills,
		skillRepo:      deps.Skills,
		skillUC:        deps.SkillUC,
		experienceRepo: deps.Experiences,
		projectRepo:    deps.Projects,
		socialLinkRepo: deps.SocialLinks,
	}
}

func (uc *profileUsecase) GetMe(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	skills, err := uc.userSkillRepo.List(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.UserProfile{User: user, Skills: skills}, nil
}

func (uc *profileUsecase) UpdateMe(ctx context.Context, p domain.Principal, in domain.UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.University = in.University
	user.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (uc *profileUsecase) ListSkills(ctx context.Context, p domain.Principal) ([]domain.Skill, error) {
	skills, err := uc.userSkillRepo.List(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return skills, nil
}

func (uc *profileUsecase) AddSkill(ctx context.Context, p domain.Principal, skillID int64) error {
	if _, err := uc.skillRepo.GetByID(ctx, skillID); err != nil {
		return notFoundOr(err, "Skill not found")
	}
	if err := uc.userSkillRepo.Add(ctx, p.UserID, skillID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) AddSkillByName(ctx context.Context, p domain.Principal, name string) (*domain.Skill, error) {
	skill, err := uc.skillUC.FindOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := uc.userSkillRepo.Add(ctx, p.UserID, skill.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	return skill, nil
}

func (uc *profileUsecase) RemoveSkill(ctx context.Context, p domain.Principal, skillID int64) error {
	if err := uc.userSkillRepo.Remove(ctx, p.UserID, skillID); err != nil {
		return notFoundOr(err, "Skill not found in your profile")
	}
	return nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperror.Validation(map[string]string{"end_date": "must be after start_date"})
	}
	return nil
}

func (uc *profileUsecase) ListExperiences(ctx context.Context, p domain.Principal) ([]domain.Experience, error) {
	out, err := uc.experienceRepo.List(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return out, nil
}

func (uc *profileUsecase) GetExperience(ctx context.Context, p domain.Principal, id int64) (*domain.Experience, error) {
	exp, err := uc.experienceRepo.Get(ctx, p.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, "Experience not found")
	}
	return exp, nil
}

func (uc *profileUsecase) CreateExperience(ctx context.Context, p domain.Principal, exp *domain.Experience) error {
	if err := checkDateRange(&exp.StartDate, exp.EndDate); err != nil {
		return err
	}
	exp.UserID = p.UserID
	if err := uc.experienceRepo.Create(ctx, exp); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) UpdateExperience(ctx context.Context, p domain.Principal, exp *domain.Experience) error {
	if err := checkDateRange(&exp.StartDate, exp.EndDate); err != nil {
		return err
	}
	exp.UserID = p.UserID
	if err := uc.experienceRepo.Update(ctx, exp); err != nil {
		return notFoundOr(err, "Experience not found")
	}
	return nil
}

func (uc *profileUsecase) DeleteExperience(ctx context.Context, p domain.Principal, id int64) error {
	if err := uc.experienceRepo.Delete(ctx, p.UserID, id); err != nil {
		return notFoundOr(err, "Experience not found")
	}
	return nil
}

func (uc *profileUsecase) ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	out, err := uc.projectRepo.List(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return out, nil
}

func (uc *profileUsecase) GetProject(ctx context.Context, p domain.Principal, id int64) (*domain.Project, error) {
	project, err := uc.projectRepo.Get(ctx, p.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, "Project not found")
	}
	return project, nil
}

func (uc *profileUsecase) CreateProject(ctx context.Context, p domain.Principal, project *domain.Project) error {
	if err := checkDateRange(project.StartDate, project.EndDate); err != nil {
		return err
	}
	project.UserID = p.UserID
	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) UpdateProject(ctx context.Context, p domain.Principal, project *domain.Project) error {
	if err := checkDateRange(project.StartDate, project.EndDate); err != nil {
		return err
	}
	project.UserID = p.UserID
	if err := uc.projectRepo.Update(ctx, project); err != nil {
		return notFoundOr(err, "Project not found")
	}
	return nil
}

func (uc *profileUsecase) DeleteProject(ctx context.Context, p domain.Principal, id int64) error {
	if err := uc.projectRepo.Delete(ctx, p.UserID, id); err != nil {
		return notFoundOr(err, "Project not found")
	}
	return nil
}

func (uc *profileUsecase) ListSocialLinks(ctx context.Context, p domain.Principal) ([]domain.SocialLink, error) {
	out, err := uc.socialLinkRepo.List(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return out, nil
}

func (uc *profileUsecase) GetSocialLink(ctx context.Context, p domain.Principal, id int64) (*domain.SocialLink, error) {
	link, err := uc.socialLinkRepo.Get(ctx, p.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, "Social link not found")
	}
	return link, nil
}

func (uc *profileUsecase) CreateSocialLink(ctx context.Context, p domain.Principal, link *domain.SocialLink) error {
	link.UserID = p.UserID
	if err := uc.socialLinkRepo.Create(ctx, link); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) UpdateSocialLink(ctx context.Context, p domain.Principal, link *domain.SocialLink) error {
	link.UserID = p.UserID
	if err := uc.socialLinkRepo.Update(ctx, link); err != nil {
		return notFoundOr(err, "Social link not found")
	}
	return nil
}

func (uc *profileUsecase) DeleteSocialLink(ctx context.Context, p domain.Principal, id int64) error {
	if err := uc.socialLinkRepo.Delete(ctx, p.UserID, id); err != nil {
		return notFoundOr(err, "Social link not found")
	}
	return nil
}
