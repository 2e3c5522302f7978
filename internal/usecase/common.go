package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

const defaultUpstreamTimeout = 10 * time.Second

// notFoundOr maps a repository ErrNotFound to a 404 with msg and anything else to a 500.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Internal(err)
}

func upstreamTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultUpstreamTimeout
	}
	return d
}

// cancelOnClose ties a streaming body to the context it was opened with.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func openBlob(ctx context.Context, blobs domain.BlobStore, timeout time.Duration, resume *domain.Resume) (*domain.ResumeFile, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout(timeout))
	body, size, err := blobs.Get(ctx, resume.StorageKey)
	if err != nil {
		cancel()
		logger.Log.Error("Failed to read resume blob",
			slog.Int64("resume_id", resume.ID),
			slog.String("key", resume.StorageKey),
			slog.Any("error", err),
		)
		return nil, apperror.Internal(err)
	}
	if size <= 0 {
		size = resume.SizeBytes
	}
	return &domain.ResumeFile{Resume: resume, Body: &cancelOnClose{ReadCloser: body, cancel: cancel}, Size: size}, nil
}
