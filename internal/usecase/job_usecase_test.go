package usecase_test

import (
	"context"
	"strings"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newJob(id, owner int64, status domain.JobStatus) *domain.Job {
	return &domain.Job{
		ID:          id,
		Title:       "Backend Engineer",
		Type:        domain.JobTypeFullTime,
		Seniority:   domain.SeniorityMid,
		Model:       domain.JobModelRemote,
		Status:      status,
		Description: "Build and run the services behind the job board.",
		PostedBy:    owner,
		Skills:      []domain.Skill{{ID: 1, Name: "Go"}, {ID: 2, Name: "PostgreSQL"}},
	}
}

func validCreateInput() domain.CreateJobInput {
	return domain.CreateJobInput{
		Title:       "Backend Engineer",
		Type:        domain.JobTypeFullTime,
		Seniority:   domain.SeniorityMid,
		Model:       domain.JobModelRemote,
		Description: "Build and run the services behind the job board.",
		SkillIDs:    []int64{1, 2, 2},
	}
}

func TestJobUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create an OPEN job and index it", func(t *testing.T) {
		jobRepo, skillRepo, indexer := new(MockJobRepo), new(MockSkillRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, skillRepo, indexer)

		skillRepo.On("CountByIDs", ctx, []int64{1, 2}).Return(2, nil)
		jobRepo.On("Create", ctx, mock.AnythingOfType("*domain.Job"), []int64{1, 2}).Return(nil)
		indexer.On("IndexJob", mock.AnythingOfType("*domain.Job")).Return()

		job, err := uc.Create(ctx, principal(7), validCreateInput())

		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOpen, job.Status)
		assert.Equal(t, int64(7), job.PostedBy)
		indexer.AssertCalled(t, "IndexJob", job)
	})

	t.Run("Should reject unknown skills", func(t *testing.T) {
		jobRepo, skillRepo, indexer := new(MockJobRepo), new(MockSkillRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, skillRepo, indexer)

		skillRepo.On("CountByIDs", ctx, []int64{1, 2}).Return(1, nil)

		_, err := uc.Create(ctx, principal(7), validCreateInput())

		assert.Equal(t, 400, appCode(err))
		assert.Contains(t, err.Error(), "One or more skills do not exist")
		jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should validate field lengths", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), new(MockSkillRepo), new(MockIndexer))
		in := validCreateInput()
		in.Title = "Go"
		in.Description = "too short"
		loc := strings.Repeat("x", 151)
		in.Location = &loc

		_, err := uc.Create(ctx, principal(7), in)

		assert.Equal(t, 400, appCode(err))
	})
}

func TestJobUsecase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	owner := principal(7)

	t.Run("Should pause, resume and close an owned job", func(t *testing.T) {
		jobRepo, indexer := new(MockJobRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, new(MockSkillRepo), indexer)
		job := newJob(10, 7, domain.JobStatusOpen)

		jobRepo.On("GetByID", ctx, int64(10)).Return(job, nil)
		jobRepo.On("UpdateStatus", ctx, int64(10), mock.AnythingOfType("domain.JobStatus")).Return(nil)
		indexer.On("IndexJob", job).Return()
		indexer.On("RemoveJob", int64(10)).Return()

		paused, err := uc.Pause(ctx, owner, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusPaused, paused.Status)

		_, err = uc.Pause(ctx, owner, 10)
		assert.EqualError(t, err, "Job with ID 10 is already paused")

		resumed, err := uc.Resume(ctx, owner, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOpen, resumed.Status)

		_, err = uc.Resume(ctx, owner, 10)
		assert.EqualError(t, err, "Job with ID 10 is already OPEN")

		closed, err := uc.Close(ctx, owner, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusClosed, closed.Status)
		indexer.AssertCalled(t, "RemoveJob", int64(10))

		_, err = uc.Close(ctx, owner, 10)
		assert.EqualError(t, err, "Job with ID 10 is already closed")
		_, err = uc.Pause(ctx, owner, 10)
		assert.EqualError(t, err, "Job with ID 10 is closed and cannot be paused")
		_, err = uc.Resume(ctx, owner, 10)
		assert.EqualError(t, err, "Job with ID 10 is closed and cannot be resumed")
	})

	t.Run("Should forbid mutations by non-owners but allow reads", func(t *testing.T) {
		jobRepo, indexer := new(MockJobRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, new(MockSkillRepo), indexer)
		job := newJob(10, 7, domain.JobStatusOpen)
		jobRepo.On("GetByID", ctx, int64(10)).Return(job, nil)

		stranger := principal(8)
		_, err := uc.Pause(ctx, stranger, 10)
		assert.Equal(t, 403, appCode(err))
		assert.EqualError(t, err, "You are not permitted to pause this job")

		_, err = uc.Close(ctx, stranger, 10)
		assert.EqualError(t, err, "You are not permitted to close this job")

		title := "New title"
		_, err = uc.Update(ctx, stranger, 10, domain.UpdateJobInput{Title: &title})
		assert.EqualError(t, err, "You are not permitted to update this job")

		got, err := uc.Get(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOpen, got.Status)
		jobRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should report a missing job", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobRepo, new(MockSkillRepo), new(MockIndexer))
		jobRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := uc.Get(ctx, 99)

		assert.Equal(t, 404, appCode(err))
		assert.EqualError(t, err, "Job with ID 99 not found")
	})
}

func TestJobUsecase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply a partial update without touching skills", func(t *testing.T) {
		jobRepo, indexer := new(MockJobRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, new(MockSkillRepo), indexer)
		job := newJob(10, 7, domain.JobStatusPaused)
		jobRepo.On("GetByID", ctx, int64(10)).Return(job, nil)
		jobRepo.On("Update", ctx, job, []int64(nil)).Return(nil)
		indexer.On("IndexJob", job).Return()

		model := domain.JobModelHybrid
		updated, err := uc.Update(ctx, principal(7), 10, domain.UpdateJobInput{Model: &model})

		require.NoError(t, err)
		assert.Equal(t, domain.JobModelHybrid, updated.Model)
		assert.Equal(t, "Backend Engineer", updated.Title)
	})

	t.Run("Should not index a closed job", func(t *testing.T) {
		jobRepo, indexer := new(MockJobRepo), new(MockIndexer)
		uc := usecase.NewJobUsecase(jobRepo, new(MockSkillRepo), indexer)
		job := newJob(10, 7, domain.JobStatusClosed)
		jobRepo.On("GetByID", ctx, int64(10)).Return(job, nil)
		jobRepo.On("Update", ctx, job, []int64(nil)).Return(nil)

		title := "Senior Backend Engineer"
		_, err := uc.Update(ctx, principal(7), 10, domain.UpdateJobInput{Title: &title})

		require.NoError(t, err)
		indexer.AssertNotCalled(t, "IndexJob", mock.Anything)
	})
}
