package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

type resumeUsecase struct {
	resumeRepo domain.ResumeRepository
	blobs      domain.BlobStore
	timeout    time.Duration
}

func NewResumeUsecase(resumeRepo domain.ResumeRepository, blobs domain.BlobStore, timeout time.Duration) domain.ResumeUsecase {
	return &resumeUsecase{resumeRepo: resumeRepo, blobs: blobs, timeout: upstreamTimeout(timeout)}
}

// Upload stores the PDF under a fresh key and records it. A failed insert leaves the blob behind.
func (uc *resumeUsecase) Upload(ctx context.Context, p domain.Principal, in domain.ResumeUpload) (*domain.Resume, error) {
	if err := security.ValidatePDF(in.FileName, in.Data); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	resume := &domain.Resume{
		UserID:     p.UserID,
		StorageKey: domain.NewResumeKey(p.UserID),
		FileName:   security.SafeFileName(in.FileName),
		SizeBytes:  int64(len(in.Data)),
		CreatedAt:  time.Now().UTC(),
	}

	putCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.blobs.Put(putCtx, resume.StorageKey, bytes.NewReader(in.Data), resume.SizeBytes, domain.ResumeContentType); err != nil {
		logger.Log.Error("Failed to store resume blob",
			slog.Int64("user_id", p.UserID),
			slog.String("key", resume.StorageKey),
			slog.Any("error", err),
		)
		return nil, apperror.Internal(err)
	}

	if err := uc.resumeRepo.Create(ctx, resume); err != nil {
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

func (uc *resumeUsecase) List(ctx context.Context, p domain.Principal) ([]domain.Resume, error) {
	resumes, err := uc.resumeRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

func (uc *resumeUsecase) Latest(ctx context.Context, p domain.Principal) (*domain.Resume, error) {
	resume, err := uc.resumeRepo.GetLatest(ctx, p.UserID)
	if err != nil {
		return nil, notFoundOr(err, "No resume found")
	}
	return resume, nil
}

// Open returns a stream of the resume; the caller must close Body.
func (uc *resumeUsecase) Open(ctx context.Context, p domain.Principal, id int64) (*domain.ResumeFile, error) {
	resume, err := uc.resumeRepo.GetByID(ctx, p.UserID, id)
	if err != nil {
		return nil, notFoundOr(err, "Resume not found")
	}
	return openBlob(ctx, uc.blobs, uc.timeout, resume)
}

func (uc *resumeUsecase) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if err := uc.resumeRepo.SoftDelete(ctx, p.UserID, id); err != nil {
		return notFoundOr(err, "Resume not found")
	}
	return nil
}
