package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo   domain.JobRepository
	skillRepo domain.SkillRepository
	indexer   domain.JobIndexer
	now       func() time.Time
}

func NewJobUsecase(jobRepo domain.JobRepository, skillRepo domain.SkillRepository, indexer domain.JobIndexer) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:   jobRepo,
		skillRepo: skillRepo,
		indexer:   indexer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateJobFields(title, description string, location *string) error {
	fields := map[string]string{}
	if n := utf8.RuneCountInString(strings.TrimSpace(title)); n < 3 || n > 100 {
		fields["title"] = "Title must be between 3 and 100 characters"
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(description)); n < 20 || n > 5000 {
		fields["description"] = "Description must be between 20 and 5000 characters"
	}
	if location != nil && utf8.RuneCountInString(*location) > 150 {
		fields["location"] = "Location must not exceed 150 characters"
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (uc *jobUsecase) checkSkills(ctx context.Context, ids []int64) ([]int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, apperror.Validation(map[string]string{"skill_ids": "At least one skill is required"})
	}
	n, err := uc.skillRepo.CountByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if n != len(ids) {
		return nil, apperror.BadRequest("One or more skills do not exist")
	}
	return ids, nil
}

func (uc *jobUsecase) Create(ctx context.Context, p domain.Principal, in domain.CreateJobInput) (*domain.Job, error) {
	if err := validateJobFields(in.Title, in.Description, in.Location); err != nil {
		return nil, err
	}
	skillIDs, err := uc.checkSkills(ctx, in.SkillIDs)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	job := &domain.Job{
		Title:       strings.TrimSpace(in.Title),
		Type:        in.Type,
		Seniority:   in.Seniority,
		Model:       in.Model,
		Status:      domain.JobStatusOpen,
		Location:    in.Location,
		Description: strings.TrimSpace(in.Description),
		PostedBy:    p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.jobRepo.Create(ctx, job, skillIDs); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.indexer.IndexJob(job)
	return job, nil
}

func (uc *jobUsecase) Get(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Job with ID %d not found", id))
	}
	return job, nil
}

func (uc *jobUsecase) ListOpen(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Job], error) {
	jobs, total, err := uc.jobRepo.ListByStatus(ctx, domain.JobStatusOpen, page)
	if err != nil {
		return domain.Page[domain.Job]{}, apperror.Internal(err)
	}
	return domain.NewPage(jobs, page, total), nil
}

func (uc *jobUsecase) ListMine(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Job], error) {
	jobs, total, err := uc.jobRepo.ListByOwner(ctx, p.UserID, page)
	if err != nil {
		return domain.Page[domain.Job]{}, apperror.Internal(err)
	}
	return domain.NewPage(jobs, page, total), nil
}

// owned loads the job and rejects principals other than its poster.
func (uc *jobUsecase) owned(ctx context.Context, p domain.Principal, id int64, verb string) (*domain.Job, error) {
	job, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != p.UserID {
		return nil, apperror.Forbidden(fmt.Sprintf("You are not permitted to %s this job", verb))
	}
	return job, nil
}

func (uc *jobUsecase) Update(ctx context.Context, p domain.Principal, id int64, in domain.UpdateJobInput) (*domain.Job, error) {
	job, err := uc.owned(ctx, p, id, "update")
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		job.Type = *in.Type
	}
	if in.Seniority != nil {
		job.Seniority = *in.Seniority
	}
	if in.Model != nil {
		job.Model = *in.Model
	}
	if in.Location != nil {
		job.Location = in.Location
	}
	if in.Description != nil {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if err := validateJobFields(job.Title, job.Description, job.Location); err != nil {
		return nil, err
	}

	var skillIDs []int64
	if in.SkillIDs != nil {
		if skillIDs, err = uc.checkSkills(ctx, in.SkillIDs); err != nil {
			return nil, err
		}
	}

	job.UpdatedAt = uc.now()
	if err := uc.jobRepo.Update(ctx, job, skillIDs); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Job with ID %d not found", id))
	}

	if job.Status != domain.JobStatusClosed {
		uc.indexer.IndexJob(job)
	}
	return job, nil
}

func (uc *jobUsecase) Pause(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	job, err := uc.owned(ctx, p, id, "pause")
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case domain.JobStatusClosed:
		return nil, apperror.BadRequestf("Job with ID %d is closed and cannot be paused", id)
	case domain.JobStatusPaused:
		return nil, apperror.BadRequestf("Job with ID %d is already paused", id)
	}

	if err := uc.setStatus(ctx, job, domain.JobStatusPaused); err != nil {
		return nil, err
	}
	uc.indexer.IndexJob(job)
	return job, nil
}

func (uc *jobUsecase) Resume(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	job, err := uc.owned(ctx, p, id, "resume")
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case domain.JobStatusClosed:
		return nil, apperror.BadRequestf("Job with ID %d is closed and cannot be resumed", id)
	case domain.JobStatusOpen:
		return nil, apperror.BadRequestf("Job with ID %d is already OPEN", id)
	}

	if err := uc.setStatus(ctx, job, domain.JobStatusOpen); err != nil {
		return nil, err
	}
	uc.indexer.IndexJob(job)
	return job, nil
}

func (uc *jobUsecase) Close(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	job, err := uc.owned(ctx, p, id, "close")
	if err != nil {
		return nil, err
	}
	if job.Status == domain.JobStatusClosed {
		return nil, apperror.BadRequestf("Job with ID %d is already closed", id)
	}

	if err := uc.setStatus(ctx, job, domain.JobStatusClosed); err != nil {
		return nil, err
	}
	uc.indexer.RemoveJob(job.ID)
	return job, nil
}

func (uc *jobUsecase) setStatus(ctx context.Context, job *domain.Job, status domain.JobStatus) error {
	if err := uc.jobRepo.UpdateStatus(ctx, job.ID, status); err != nil {
		return notFoundOr(err, fmt.Sprintf("Job with ID %d not found", job.ID))
	}
	job.Status = status
	job.UpdatedAt = uc.now()
	return nil
}
