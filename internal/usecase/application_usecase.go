package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/pdftext"
	"go-jobboard-backend/pkg/security"
)

const maxCoverLetterLength = 5000

// ApplicationDeps groups the collaborators of the application usecase.
type ApplicationDeps struct {
	Apps       domain.ApplicationRepository
	Jobs       domain.JobRepository
	Resumes    domain.ResumeRepository
	ResumeUC   domain.ResumeUsecase
	UserSkills domain.UserSkillRepository
	Blobs      domain.BlobStore
	Extractor  domain.TextExtractor
	Mailer     domain.Mailer
	Tasks      domain.TaskRunner
	Audit      *security.SecurityLogger
	Timeout    time.Duration
}

type applicationUsecase struct {
	ApplicationDeps
	now func() time.Time
}

func NewApplicationUsecase(deps ApplicationDeps) domain.ApplicationUsecase {
	deps.Timeout = upstreamTimeout(deps.Timeout)
	if deps.Audit == nil {
		deps.Audit = security.NewNopSecurityLogger()
	}
	return &applicationUsecase{
		ApplicationDeps: deps,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (uc *applicationUsecase) Apply(ctx context.Context, p domain.Principal, in domain.ApplyInput) (*domain.Application, error) {
	if in.CoverLetter != nil && utf8.RuneCountInString(*in.CoverLetter) > maxCoverLetterLength {
		return nil, apperror.Validation(map[string]string{
			"cover_letter": "Cover letter must not exceed 5000 characters",
		})
	}
	if in.Upload == nil && in.ResumeID == nil {
		return nil, apperror.BadRequest("A resume file or resume_id is required")
	}

	job, err := uc.Jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Job with ID %d not found", in.JobID))
	}
	if job.Status != domain.JobStatusOpen {
		return nil, apperror.BadRequestf("Job with ID %d is not open for applications", in.JobID)
	}

	exists, err := uc.Apps.Exists(ctx, p.UserID, job.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied for this job")
	}

	resume, data, err := uc.resolveResume(ctx, p, in)
	if err != nil {
		return nil, err
	}
	content, err := uc.extract(data)
	if err != nil {
		return nil, err
	}

	ratio, err := uc.matchingRatio(ctx, p.UserID, job)
	if err != nil {
		return nil, err
	}

	// A new upload is only stored once the application is known to be acceptable.
	if resume == nil {
		resume, err = uc.ResumeUC.Upload(ctx, p, *in.Upload)
		if err != nil {
			return nil, err
		}
	}

	now := uc.now()
	app := &domain.Application{
		ApplicantID:    p.UserID,
		ApplicantName:  p.FullName,
		ApplicantEmail: p.Email,
		JobID:          job.ID,
		JobTitle:       job.Title,
		JobPostedBy:    job.PostedBy,
		ResumeID:       &resume.ID,
		ResumeContent:  content,
		CoverLetter:    in.CoverLetter,
		Status:         domain.StatusSubmitted,
		MatchingRatio:  ratio,
		AppliedAt:      now,
		LastUpdate:     now,
	}
	if err := uc.Apps.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("You have already applied for this job")
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Application submitted",
		slog.Int64("application_id", app.ID),
		slog.Int64("job_id", job.ID),
		slog.Int64("applicant_id", p.UserID),
	)
	return app, nil
}

// resolveResume returns the stored resume the application points at together with its bytes.
// For a new upload the resume is nil; it has not been persisted yet.
func (uc *applicationUsecase) resolveResume(ctx context.Context, p domain.Principal, in domain.ApplyInput) (*domain.Resume, []byte, error) {
	if in.Upload != nil {
		if err := security.ValidatePDF(in.Upload.FileName, in.Upload.Data); err != nil {
			return nil, nil, apperror.BadRequest(err.Error())
		}
		return nil, in.Upload.Data, nil
	}

	resume, err := uc.Resumes.GetByID(ctx, p.UserID, *in.ResumeID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Resume not found")
	}
	file, err := openBlob(ctx, uc.Blobs, uc.Timeout, resume)
	if err != nil {
		return nil, nil, err
	}
	defer file.Body.Close()

	data, err := io.ReadAll(io.LimitReader(file.Body, security.MaxResumeBytes+1))
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	return resume, data, nil
}

// extract stores scanned PDFs with empty content; unreadable PDFs are rejected.
func (uc *applicationUsecase) extract(data []byte) (string, error) {
	text, err := uc.Extractor.ExtractText(data)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, pdftext.ErrNoText):
		return "", nil
	default:
		logger.Log.Warn("Failed to extract resume text", slog.Any("error", err))
		return "", apperror.BadRequest("Failed to read the resume PDF")
	}
}

// matchingRatio is the share of the job's skills the applicant has, as a percentage.
func (uc *applicationUsecase) matchingRatio(ctx context.Context, userID int64, job *domain.Job) (float64, error) {
	if len(job.Skills) == 0 {
		return 0, nil
	}
	skills, err := uc.UserSkills.List(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	have := make(map[int64]struct{}, len(skills))
	for _, s := range skills {
		have[s.ID] = struct{}{}
	}

	matched := 0
	for _, s := range job.Skills {
		if _, ok := have[s.ID]; ok {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(job.Skills)) * 100
	return math.Round(ratio*100) / 100, nil
}

func (uc *applicationUsecase) ListMine(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Application], error) {
	apps, total, err := uc.Apps.ListByApplicant(ctx, p.UserID, page)
	if err != nil {
		return domain.Page[domain.Application]{}, apperror.Internal(err)
	}
	return domain.NewPage(apps, page, total), nil
}

func (uc *applicationUsecase) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Application, error) {
	app, err := uc.Apps.GetVisible(ctx, p.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Application with ID %d not found", id))
	}
	return app, nil
}

// ListForJob yields an empty page when the job is not the caller's.
func (uc *applicationUsecase) ListForJob(ctx context.Context, p domain.Principal, jobID int64, status *domain.ApplicationStatus, page domain.PageRequest) (domain.Page[domain.Application], error) {
	apps, total, err := uc.Apps.ListByJob(ctx, p.UserID, jobID, status, page)
	if err != nil {
		return domain.Page[domain.Application]{}, apperror.Internal(err)
	}
	return domain.NewPage(apps, page, total), nil
}

func (uc *applicationUsecase) UpdateStatus(ctx context.Context, p domain.Principal, id int64, next domain.ApplicationStatus) (*domain.Application, error) {
	app, err := uc.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateStatusTransition(app.Status, next); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	isApplicant := app.ApplicantID == p.UserID
	isPoster := app.JobPostedBy == p.UserID
	switch {
	case next == domain.StatusWithdrawn && !isApplicant:
		uc.Audit.LogPermissionDenied(ctx, strconv.FormatInt(p.UserID, 10), requestIDFrom(ctx), "withdraw_application")
		return nil, apperror.Forbidden("Only the applicant can withdraw an application")
	case next != domain.StatusWithdrawn && !isPoster:
		uc.Audit.LogPermissionDenied(ctx, strconv.FormatInt(p.UserID, 10), requestIDFrom(ctx), "update_application_status")
		return nil, apperror.Forbidden("Only the job poster can change this application's status")
	}

	now := uc.now()
	if err := uc.Apps.UpdateStatus(ctx, app.ID, next, now); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Application with ID %d not found", id))
	}
	app.Status = next
	app.LastUpdate = now

	if !isApplicant {
		uc.notifyStatusChange(*app)
	}
	return app, nil
}

func (uc *applicationUsecase) notifyStatusChange(app domain.Application) {
	status, _ := app.Status.MarshalText()
	msg := domain.MailMessage{
		To:   app.ApplicantEmail,
		Kind: domain.MailStatusChange,
		Data: map[string]string{
			"name":      app.ApplicantName,
			"job_title": app.JobTitle,
			"status":    string(status),
		},
	}
	uc.Tasks.Go("mail:status_change", func(ctx context.Context) error {
		return uc.Mailer.Dispatch(ctx, msg)
	})
}

func (uc *applicationUsecase) OpenResume(ctx context.Context, p domain.Principal, id int64) (*domain.ResumeFile, error) {
	app, err := uc.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if app.ResumeID == nil {
		return nil, apperror.NotFound("Resume not found")
	}
	resume, err := uc.Resumes.GetActiveByID(ctx, *app.ResumeID)
	if err != nil {
		return nil, notFoundOr(err, "Resume not found")
	}
	return openBlob(ctx, uc.Blobs, uc.Timeout, resume)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
