package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSkillUsecase struct {
	mock.Mock
}

func (m *MockSkillUsecase) Create(ctx context.Context, in domain.SkillInput) (*domain.Skill, error) {
	return m.skill(m.Called(ctx, in))
}
func (m *MockSkillUsecase) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Skill], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.Page[domain.Skill]), args.Error(1)
}
func (m *MockSkillUsecase) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	return m.skill(m.Called(ctx, name))
}
func (m *MockSkillUsecase) Update(ctx context.Context, id int64, in domain.SkillInput) (*domain.Skill, error) {
	return m.skill(m.Called(ctx, id, in))
}
func (m *MockSkillUsecase) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	return m.skill(m.Called(ctx, name))
}

func (m *MockSkillUsecase) skill(args mock.Arguments) (*domain.Skill, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

type MockExperienceRepo struct {
	mock.Mock
}

func (m *MockExperienceRepo) List(ctx context.Context, userID int64) ([]domain.Experience, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Experience), args.Error(1)
}
func (m *MockExperienceRepo) Get(ctx context.Context, userID, id int64) (*domain.Experience, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experience), args.Error(1)
}
func (m *MockExperienceRepo) Create(ctx context.Context, exp *domain.Experience) error {
	return m.Called(ctx, exp).Error(0)
}
func (m *MockExperienceRepo) Update(ctx context.Context, exp *domain.Experience) error {
	return m.Called(ctx, exp).Error(0)
}
func (m *MockExperienceRepo) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockSocialLinkRepo struct {
	mock.Mock
}

func (m *MockSocialLinkRepo) List(ctx context.Context, userID int64) ([]domain.SocialLink, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.SocialLink), args.Error(1)
}
func (m *MockSocialLinkRepo) Get(ctx context.Context, userID, id int64) (*domain.SocialLink, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SocialLink), args.Error(1)
}
func (m *MockSocialLinkRepo) Create(ctx context.Context, link *domain.SocialLink) error {
	return m.Called(ctx, link).Error(0)
}
func (m *MockSocialLinkRepo) Update(ctx context.Context, link *domain.SocialLink) error {
	return m.Called(ctx, link).Error(0)
}
func (m *MockSocialLinkRepo) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

type profileFixture struct {
	users       *MockUserRepo
	userSkills  *MockUserSkillRepo
	skills      *MockSkillRepo
	skillUC     *MockSkillUsecase
	experiences *MockExperienceRepo
	socialLinks *MockSocialLinkRepo
	uc          domain.ProfileUsecase
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		users:       new(MockUserRepo),
		userSkills:  new(MockUserSkillRepo),
		skills:      new(MockSkillRepo),
		skillUC:     new(MockSkillUsecase),
		experiences: new(MockExperienceRepo),
		socialLinks: new(MockSocialLinkRepo),
	}
	f.uc = usecase.NewProfileUsecase(usecase.ProfileDeps{
		Users:       f.users,
		UserSkills:  f.userSkills,
		Skills:      f.skills,
		SkillUC:     f.skillUC,
		Experiences: f.experiences,
		SocialLinks: f.socialLinks,
	})
	return f
}

func TestProfileUsecase_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("get joins skills", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, FirstName: "Ada"}, nil).Once()
		f.userSkills.On("List", ctx, int64(7)).Return([]domain.Skill{{ID: 1, Name: "Go"}}, nil).Once()

		profile, err := f.uc.GetMe(ctx, principal(7))

		require.NoError(t, err)
		assert.Equal(t, "Ada", profile.User.FirstName)
		assert.Len(t, profile.Skills, 1)
	})

	t.Run("update trims names", func(t *testing.T) {
		f := newProfileFixture()
		uni := "MIT"
		f.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, FirstName: "Old"}, nil).Once()
		f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.FirstName == "Ada" && u.LastName == "Lovelace" && *u.University == "MIT"
		})).Return(nil).Once()

		user, err := f.uc.UpdateMe(ctx, principal(7), domain.UpdateProfileInput{
			FirstName:  "  Ada ",
			LastName:   "Lovelace ",
			University: &uni,
		})

		require.NoError(t, err)
		assert.False(t, user.UpdatedAt.IsZero())
		f.users.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(7)).Return(nil, domain.ErrNotFound).Once()

		_, err := f.uc.GetMe(ctx, principal(7))

		assert.Equal(t, http.StatusNotFound, appCode(err))
	})
}

func TestProfileUsecase_Skills(t *testing.T) {
	ctx := context.Background()

	t.Run("add by id requires an existing skill", func(t *testing.T) {
		f := newProfileFixture()
		f.skills.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

		err := f.uc.AddSkill(ctx, principal(7), 99)

		assert.Equal(t, http.StatusNotFound, appCode(err))
		f.userSkills.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("add by name finds or creates", func(t *testing.T) {
		f := newProfileFixture()
		f.skillUC.On("FindOrCreate", ctx, "Spring Boot").Return(&domain.Skill{ID: 12, Name: "Spring Boot"}, nil).Once()
		f.userSkills.On("Add", ctx, int64(7), int64(12)).Return(nil).Once()

		skill, err := f.uc.AddSkillByName(ctx, principal(7), "Spring Boot")

		require.NoError(t, err)
		assert.Equal(t, int64(12), skill.ID)
		f.userSkills.AssertExpectations(t)
	})

	t.Run("remove a skill the user does not have", func(t *testing.T) {
		f := newProfileFixture()
		f.userSkills.On("Remove", ctx, int64(7), int64(3)).Return(domain.ErrNotFound).Once()

		err := f.uc.RemoveSkill(ctx, principal(7), 3)

		assert.Equal(t, http.StatusNotFound, appCode(err))
	})
}

func TestProfileUsecase_Records(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("experience is stamped with the owner", func(t *testing.T) {
		f := newProfileFixture()
		exp := &domain.Experience{Title: "Engineer", Organization: "Acme", StartDate: start, UserID: 99}
		f.experiences.On("Create", ctx, mock.MatchedBy(func(e *domain.Experience) bool {
			return e.UserID == 7
		})).Return(nil).Once()

		require.NoError(t, f.uc.CreateExperience(ctx, principal(7), exp))
		f.experiences.AssertExpectations(t)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		f := newProfileFixture()
		end := start.AddDate(0, -1, 0)

		err := f.uc.CreateExperience(ctx, principal(7), &domain.Experience{StartDate: start, EndDate: &end})

		assert.Equal(t, http.StatusBadRequest, appCode(err))
		f.experiences.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("another user's experience is not found", func(t *testing.T) {
		f := newProfileFixture()
		f.experiences.On("Get", ctx, int64(7), int64(5)).Return(nil, domain.ErrNotFound).Once()

		_, err := f.uc.GetExperience(ctx, principal(7), 5)

		assert.Equal(t, http.StatusNotFound, appCode(err))
	})

	t.Run("updating a missing social link", func(t *testing.T) {
		f := newProfileFixture()
		f.socialLinks.On("Update", ctx, mock.Anything).Return(domain.ErrNotFound).Once()

		err := f.uc.UpdateSocialLink(ctx, principal(7), &domain.SocialLink{ID: 4, URL: "https://github.com/x", SocialType: domain.SocialGithub})

		assert.Equal(t, http.StatusNotFound, appCode(err))
	})

	t.Run("storage failures are internal", func(t *testing.T) {
		f := newProfileFixture()
		f.socialLinks.On("List", ctx, int64(7)).Return([]domain.SocialLink(nil), errors.New("conn reset")).Once()

		_, err := f.uc.ListSocialLinks(ctx, principal(7))

		assert.Equal(t, http.StatusInternalServerError, appCode(err))
	})
}
