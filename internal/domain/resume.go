package domain

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const ResumeContentType = "application/pdf"

type Resume struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	StorageKey string    `json:"-"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	IsDeleted  bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewResumeKey addresses a blob by owner and a random id, never by file name.
func NewResumeKey(userID int64) string {
	return fmt.Sprintf("%d/%s", userID, uuid.NewString())
}

// ResumeFile is an opened resume ready to be streamed to the client.
type ResumeFile struct {
	Resume *Resume
	Body   io.ReadCloser
	Size   int64
}

type ResumeUpload struct {
	FileName string
	Data     []byte
}

// BlobStore holds resume bytes outside the relational store.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// ResumeRepository never returns soft-deleted rows.
type ResumeRepository interface {
	Create(ctx context.Context, resume *Resume) error
	GetByID(ctx context.Context, userID, id int64) (*Resume, error)
	GetActiveByID(ctx context.Context, id int64) (*Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	GetLatest(ctx context.Context, userID int64) (*Resume, error)
	SoftDelete(ctx context.Context, userID, id int64) error
}

type ResumeUsecase interface {
	Upload(ctx context.Context, p Principal, in ResumeUpload) (*Resume, error)
	List(ctx context.Context, p Principal) ([]Resume, error)
	Latest(ctx context.Context, p Principal) (*Resume, error)
	Open(ctx context.Context, p Principal, id int64) (*ResumeFile, error)
	Delete(ctx context.Context, p Principal, id int64) error
}
