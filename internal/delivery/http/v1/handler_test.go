package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	security.SetDefaultLogger(security.NewNopSecurityLogger())
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
	os.Exit(m.Run())
}

var caller = domain.Principal{UserID: 7, Email: "dev@example.com", FullName: "Dev Eloper"}

type stubIssuer struct{}

func (stubIssuer) Issue(user *domain.User) (string, time.Time, error) {
	return "good", time.Now().Add(time.Hour), nil
}

func (stubIssuer) Parse(token string) (*domain.Principal, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	p := caller
	return &p, nil
}

// --- Mocks ---

type MockSkillUsecase struct{ mock.Mock }

func (m *MockSkillUsecase) Create(ctx context.Context, in domain.SkillInput) (*domain.Skill, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *MockSkillUsecase) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Skill], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.Page[domain.Skill]), args.Error(1)
}

func (m *MockSkillUsecase) GetByName(ctx context.Context, name string) (*domain.Skill, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *MockSkillUsecase) Update(ctx context.Context, id int64, in domain.SkillInput) (*domain.Skill, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *MockSkillUsecase) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

type MockJobUsecase struct{ mock.Mock }

func (m *MockJobUsecase) job(args mock.Arguments) (*domain.Job, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobUsecase) Create(ctx context.Context, p domain.Principal, in domain.CreateJobInput) (*domain.Job, error) {
	return m.job(m.Called(ctx, p, in))
}

func (m *MockJobUsecase) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return m.job(m.Called(ctx, id))
}

func (m *MockJobUsecase) ListOpen(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Job], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.Page[domain.Job]), args.Error(1)
}

func (m *MockJobUsecase) ListMine(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Job], error) {
	args := m.Called(ctx, p, page)
	return args.Get(0).(domain.Page[domain.Job]), args.Error(1)
}

func (m *MockJobUsecase) Update(ctx context.Context, p domain.Principal, id int64, in domain.UpdateJobInput) (*domain.Job, error) {
	return m.job(m.Called(ctx, p, id, in))
}

func (m *MockJobUsecase) Pause(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	return m.job(m.Called(ctx, p, id))
}

func (m *MockJobUsecase) Resume(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	return m.job(m.Called(ctx, p, id))
}

func (m *MockJobUsecase) Close(ctx context.Context, p domain.Principal, id int64) (*domain.Job, error) {
	return m.job(m.Called(ctx, p, id))
}

type MockApplicationUsecase struct{ mock.Mock }

func (m *MockApplicationUsecase) app(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) Apply(ctx context.Context, p domain.Principal, in domain.ApplyInput) (*domain.Application, error) {
	return m.app(m.Called(ctx, p, in))
}

func (m *MockApplicationUsecase) ListMine(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Application], error) {
	args := m.Called(ctx, p, page)
	return args.Get(0).(domain.Page[domain.Application]), args.Error(1)
}

func (m *MockApplicationUsecase) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Application, error) {
	return m.app(m.Called(ctx, p, id))
}

func (m *MockApplicationUsecase) ListForJob(ctx context.Context, p domain.Principal, jobID int64, status *domain.ApplicationStatus, page domain.PageRequest) (domain.Page[domain.Application], error) {
	args := m.Called(ctx, p, jobID, status, page)
	return args.Get(0).(domain.Page[domain.Application]), args.Error(1)
}

func (m *MockApplicationUsecase) UpdateStatus(ctx context.Context, p domain.Principal, id int64, next domain.ApplicationStatus) (*domain.Application, error) {
	return m.app(m.Called(ctx, p, id, next))
}

func (m *MockApplicationUsecase) OpenResume(ctx context.Context, p domain.Principal, id int64) (*domain.ResumeFile, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeFile), args.Error(1)
}

func (m *MockApplicationUsecase) ExportForJob(ctx context.Context, p domain.Principal, jobID int64, w io.Writer) error {
	return m.Called(ctx, p, jobID, w).Error(0)
}

type MockResumeUsecase struct{ mock.Mock }

func (m *MockResumeUsecase) Upload(ctx context.Context, p domain.Principal, in domain.ResumeUpload) (*domain.Resume, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) List(ctx context.Context, p domain.Principal) ([]domain.Resume, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) Latest(ctx context.Context, p domain.Principal) (*domain.Resume, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) Open(ctx context.Context, p domain.Principal, id int64) (*domain.ResumeFile, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeFile), args.Error(1)
}

func (m *MockResumeUsecase) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

type stubHealth struct {
	status  map[string]string
	healthy bool
}

func (s stubHealth) Check(ctx context.Context) (map[string]string, bool) {
	return s.status, s.healthy
}

// --- Helpers ---

func newEngine() (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	protected := r.Group("/v1")
	protected.Use(middleware.AuthMiddleware(stubIssuer{}))
	return r, protected
}

func passThrough(c *gin.Context) { c.Next() }

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer good")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return do(r, method, path, strings.NewReader(body), "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// --- Tests ---

func TestSkillHandler(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		uc := new(MockSkillUsecase)
		r, protected := newEngine()
		v1.NewSkillHandler(protected, uc)

		uc.On("Create", mock.Anything, domain.SkillInput{Name: "Go"}).
			Return(&domain.Skill{ID: 1, Name: "Go"}, nil).Once()

		w := doJSON(r, http.MethodPost, "/v1/skills", `{"name":"Go"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.RequestID)
		uc.AssertExpectations(t)
	})

	t.Run("missing name is a validation error keyed by json name", func(t *testing.T) {
		uc := new(MockSkillUsecase)
		r, protected := newEngine()
		v1.NewSkillHandler(protected, uc)

		w := doJSON(r, http.MethodPost, "/v1/skills", `{"category":"lang"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		fields, ok := decode(t, w).Error.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "name")
		uc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		uc := new(MockSkillUsecase)
		r, protected := newEngine()
		v1.NewSkillHandler(protected, uc)

		uc.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperror.Conflict("Skill already exists")).Once()

		w := doJSON(r, http.MethodPost, "/v1/skills", `{"name":"Go"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Skill already exists", decode(t, w).Message)
	})

	t.Run("lookup by name", func(t *testing.T) {
		uc := new(MockSkillUsecase)
		r, protected := newEngine()
		v1.NewSkillHandler(protected, uc)

		uc.On("GetByName", mock.Anything, "Spring Boot").
			Return(&domain.Skill{ID: 3, Name: "Spring Boot"}, nil).Once()

		w := do(r, http.MethodGet, "/v1/skills/name?name=Spring%20Boot", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		uc := new(MockSkillUsecase)
		r, protected := newEngine()
		v1.NewSkillHandler(protected, uc)

		w := doJSON(r, http.MethodPut, "/v1/skills/abc", `{"name":"Go"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id", decode(t, w).Message)
	})
}

func TestJobHandler(t *testing.T) {
	t.Run("create parses api enum values", func(t *testing.T) {
		jobs := new(MockJobUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, jobs, nil, nil)

		expected := domain.CreateJobInput{
			Title:       "Backend Engineer",
			Type:        domain.JobTypeFullTime,
			Seniority:   domain.SenioritySenior,
			Model:       domain.JobModelRemote,
			Description: "Build APIs",
			SkillIDs:    []int64{1, 2},
		}
		jobs.On("Create", mock.Anything, caller, expected).
			Return(&domain.Job{ID: 100, Title: "Backend Engineer"}, nil).Once()

		w := doJSON(r, http.MethodPost, "/v1/jobs", `{
			"title":"Backend Engineer","type":"full-time","seniority":"senior",
			"model":"remote","description":"Build APIs","skill_ids":[1,2]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		jobs.AssertExpectations(t)
	})

	t.Run("unknown enum values are reported per field", func(t *testing.T) {
		jobs := new(MockJobUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, jobs, nil, nil)

		w := doJSON(r, http.MethodPost, "/v1/jobs", `{
			"title":"Backend Engineer","type":"freelance","seniority":"senior",
			"model":"orbital","description":"Build APIs","skill_ids":[1]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		fields, ok := decode(t, w).Error.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "type")
		assert.Contains(t, fields, "model")
		assert.NotContains(t, fields, "seniority")
		jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("page size is clamped", func(t *testing.T) {
		jobs := new(MockJobUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, jobs, nil, nil)

		jobs.On("ListOpen", mock.Anything, domain.PageRequest{Page: 2, Size: domain.MaxPageSize}).
			Return(domain.NewPage([]domain.Job{}, domain.PageRequest{Page: 2, Size: domain.MaxPageSize}, 0), nil).Once()

		w := do(r, http.MethodGet, "/v1/jobs?page=2&size=500", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		jobs.AssertExpectations(t)
	})

	t.Run("status filter in path", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, nil, nil, apps)

		status := domain.StatusShortlisted
		page := domain.NewPageRequest(0, domain.DefaultPageSize)
		apps.On("ListForJob", mock.Anything, caller, int64(9), &status, page).
			Return(domain.NewPage([]domain.Application{}, page, 0), nil).Once()

		w := do(r, http.MethodGet, "/v1/jobs/9/applications/shortlisted", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		apps.AssertExpectations(t)
	})

	t.Run("export streams a workbook", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, nil, nil, apps)

		apps.On("ExportForJob", mock.Anything, caller, int64(9), mock.Anything).
			Run(func(args mock.Arguments) {
				_, _ = args.Get(3).(io.Writer).Write([]byte("PK\x03\x04"))
			}).
			Return(nil).Once()

		w := do(r, http.MethodGet, "/v1/jobs/9/applications/export", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "job-9-applications.xlsx")
		assert.Equal(t, "PK\x03\x04", w.Body.String())
	})

	t.Run("export by a non-owner keeps the json envelope", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewJobHandler(protected, nil, nil, apps)

		apps.On("ExportForJob", mock.Anything, caller, int64(9), mock.Anything).
			Return(apperror.Forbidden("You are not permitted to export this job")).Once()

		w := do(r, http.MethodGet, "/v1/jobs/9/applications/export", nil, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, decode(t, w).Success)
	})
}

func TestApplicationHandler(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%%EOF")

	t.Run("apply with a new resume", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		apps.On("Apply", mock.Anything, caller, mock.MatchedBy(func(in domain.ApplyInput) bool {
			return in.JobID == 5 && in.Upload != nil && in.Upload.FileName == "cv.pdf" &&
				in.CoverLetter != nil && *in.CoverLetter == "Hello" && in.ResumeID == nil
		})).Return(&domain.Application{ID: 500, Status: domain.StatusSubmitted}, nil).Once()

		body, ct := multipartBody(t, map[string]string{"job_id": "5", "cover_letter": " Hello "}, "resume", "cv.pdf", pdf)
		w := do(r, http.MethodPost, "/v1/applications", body, ct)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"submitted"`)
		apps.AssertExpectations(t)
	})

	t.Run("apply with an existing resume", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		apps.On("Apply", mock.Anything, caller, mock.MatchedBy(func(in domain.ApplyInput) bool {
			return in.ResumeID != nil && *in.ResumeID == 42 && in.Upload == nil
		})).Return(&domain.Application{ID: 501}, nil).Once()

		body, ct := multipartBody(t, map[string]string{"job_id": "5", "resume_id": "42"}, "", "", nil)
		w := do(r, http.MethodPost, "/v1/applications", body, ct)

		assert.Equal(t, http.StatusCreated, w.Code)
		apps.AssertExpectations(t)
	})

	t.Run("job id is required", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		body, ct := multipartBody(t, map[string]string{"resume_id": "42"}, "", "", nil)
		w := do(r, http.MethodPost, "/v1/applications", body, ct)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		apps.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status update parses the query value", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		apps.On("UpdateStatus", mock.Anything, caller, int64(500), domain.StatusUnderReview).
			Return(&domain.Application{ID: 500, Status: domain.StatusUnderReview}, nil).Once()

		w := do(r, http.MethodPatch, "/v1/applications/500/status?status=under-review", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		apps.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		w := do(r, http.MethodPatch, "/v1/applications/500/status?status=promoted", nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("resume is streamed inline", func(t *testing.T) {
		apps := new(MockApplicationUsecase)
		r, protected := newEngine()
		v1.NewApplicationHandler(protected, apps, passThrough)

		apps.On("OpenResume", mock.Anything, caller, int64(500)).Return(&domain.ResumeFile{
			Resume: &domain.Resume{ID: 42, FileName: "cv.pdf"},
			Body:   io.NopCloser(bytes.NewReader(pdf)),
			Size:   int64(len(pdf)),
		}, nil).Once()

		w := do(r, http.MethodGet, "/v1/applications/500/resume/view", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.ResumeContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="cv.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, pdf, w.Body.Bytes())
	})
}

func TestResumeHandler(t *testing.T) {
	t.Run("upload without a file", func(t *testing.T) {
		resumes := new(MockResumeUsecase)
		r, protected := newEngine()
		v1.NewResumeHandler(protected.Group("/user/me"), resumes, passThrough)

		body, ct := multipartBody(t, map[string]string{}, "", "", nil)
		w := do(r, http.MethodPost, "/v1/user/me/resumes", body, ct)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file uploaded", decode(t, w).Message)
	})

	t.Run("upload", func(t *testing.T) {
		resumes := new(MockResumeUsecase)
		r, protected := newEngine()
		v1.NewResumeHandler(protected.Group("/user/me"), resumes, passThrough)

		resumes.On("Upload", mock.Anything, caller, domain.ResumeUpload{FileName: "cv.pdf", Data: []byte("%PDF-1.7")}).
			Return(&domain.Resume{ID: 42, FileName: "cv.pdf"}, nil).Once()

		body, ct := multipartBody(t, nil, "file", "cv.pdf", []byte("%PDF-1.7"))
		w := do(r, http.MethodPost, "/v1/user/me/resumes", body, ct)

		assert.Equal(t, http.StatusCreated, w.Code)
		resumes.AssertExpectations(t)
	})

	t.Run("upload limiter runs before the handler", func(t *testing.T) {
		resumes := new(MockResumeUsecase)
		r, protected := newEngine()
		deny := func(c *gin.Context) {
			response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", nil)
			c.Abort()
		}
		v1.NewResumeHandler(protected.Group("/user/me"), resumes, deny)

		body, ct := multipartBody(t, nil, "file", "cv.pdf", []byte("%PDF-1.7"))
		w := do(r, http.MethodPost, "/v1/user/me/resumes", body, ct)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		resumes.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete missing resume", func(t *testing.T) {
		resumes := new(MockResumeUsecase)
		r, protected := newEngine()
		v1.NewResumeHandler(protected.Group("/user/me"), resumes, passThrough)

		resumes.On("Delete", mock.Anything, caller, int64(9)).Return(apperror.NotFound("Resume not found")).Once()

		w := do(r, http.MethodDelete, "/v1/user/me/resumes/9", nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, protected := newEngine()
	v1.NewSkillHandler(protected, new(MockSkillUsecase))

	req := httptest.NewRequest(http.MethodGet, "/v1/skills", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
