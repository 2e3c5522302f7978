package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) Create(ctx context.Context, token *domain.ActivationToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockTokenRepo) GetByToken(ctx context.Context, token string) (*domain.ActivationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivationToken), args.Error(1)
}
func (m *MockTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockTokenRepo) InvalidateAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockTokenRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockIssuer) Parse(token string) (*domain.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Error(1)
}
func (m *MockGuard) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	args := m.Called(ctx, email, ip, userAgent, requestID)
	return args.Bool(0), args.Int(1), args.Error(2)
}
func (m *MockGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Dispatch(ctx context.Context, msg domain.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// inlineTasks runs background work synchronously so assertions see its effects.
type inlineTasks struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (t *inlineTasks) Go(name string, fn func(ctx context.Context) error) {
	err := fn(context.Background())
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = append(t.names, name)
	t.errs = append(t.errs, err)
}

type MockSkillRepo struct {
	mock.Mock
}

func (m *MockSkillRepo) Create(ctx context.Context, skill *domain.Skill) error {
	return m.Called(ctx, skill).Error(0)
}
func (m *MockSkillRepo) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}
func (m *MockSkillRepo) GetBySearchName(ctx context.Context, searchName string) (*domain.Skill, error) {
	args := m.Called(ctx, searchName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}
func (m *MockSkillRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Skill, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.Skill), args.Get(1).(int64), args.Error(2)
}
func (m *MockSkillRepo) Update(ctx context.Context, skill *domain.Skill) error {
	return m.Called(ctx, skill).Error(0)
}
func (m *MockSkillRepo) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job, skillIDs []int64) error {
	args := m.Called(ctx, job, skillIDs)
	if job.ID == 0 {
		job.ID = 100
	}
	return args.Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Job, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) ListByStatus(ctx context.Context, status domain.JobStatus, page domain.PageRequest) ([]domain.Job, int64, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) ListByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]domain.Job, int64, error) {
	args := m.Called(ctx, ownerID, page)
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job, skillIDs []int64) error {
	return m.Called(ctx, job, skillIDs).Error(0)
}
func (m *MockJobRepo) UpdateStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexJob(job *domain.Job) { m.Called(job) }
func (m *MockIndexer) RemoveJob(jobID int64)    { m.Called(jobID) }

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	if app.ID == 0 {
		app.ID = 500
	}
	return args.Error(0)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, applicantID, jobID int64) (bool, error) {
	args := m.Called(ctx, applicantID, jobID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) GetVisible(ctx context.Context, viewerID, id int64) (*domain.Application, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID int64, page domain.PageRequest) ([]domain.Application, int64, error) {
	args := m.Called(ctx, applicantID, page)
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) ListByJob(ctx context.Context, ownerID, jobID int64, status *domain.ApplicationStatus, page domain.PageRequest) ([]domain.Application, int64, error) {
	args := m.Called(ctx, ownerID, jobID, status, page)
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) ListAllByJob(ctx context.Context, ownerID, jobID int64) ([]domain.Application, error) {
	args := m.Called(ctx, ownerID, jobID)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	args := m.Called(ctx, resume)
	if resume.ID == 0 {
		resume.ID = 42
	}
	return args.Error(0)
}
func (m *MockResumeRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Resume, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) GetLatest(ctx context.Context, userID int64) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, body, size, contentType).Error(0)
}
func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

type MockUserSkillRepo struct {
	mock.Mock
}

func (m *MockUserSkillRepo) List(ctx context.Context, userID int64) ([]domain.Skill, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Skill), args.Error(1)
}
func (m *MockUserSkillRepo) Add(ctx context.Context, userID, skillID int64) error {
	return m.Called(ctx, userID, skillID).Error(0)
}
func (m *MockUserSkillRepo) Remove(ctx context.Context, userID, skillID int64) error {
	return m.Called(ctx, userID, skillID).Error(0)
}
func (m *MockUserSkillRepo) Names(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

type MockSimilarityIndex struct {
	mock.Mock
}

func (m *MockSimilarityIndex) Upsert(ctx context.Context, doc domain.IndexDocument) error {
	return m.Called(ctx, doc).Error(0)
}
func (m *MockSimilarityIndex) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockSimilarityIndex) Search(ctx context.Context, query string, topK int, threshold float64) ([]domain.ScoredID, error) {
	args := m.Called(ctx, query, topK, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredID), args.Error(1)
}

func principal(id int64) domain.Principal {
	return domain.Principal{UserID: id, Email: "user@example.com", FullName: "Test User"}
}

func appCode(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
