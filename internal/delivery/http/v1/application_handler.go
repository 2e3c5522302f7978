package v1

import (
	"net/http"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, uploadLimit gin.HandlerFunc) {
	handler := &ApplicationHandler{appUC: appUC}

	apps := protected.Group("/applications")
	{
		apps.POST("", uploadLimit, handler.Apply)
		apps.GET("/me", handler.ListMine)
		apps.GET("/:id", handler.Get)
		apps.GET("/:id/resume/view", handler.ViewResume)
		apps.GET("/:id/resume/download", handler.DownloadResume)
		apps.PATCH("/:id/status", handler.UpdateStatus)
	}
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Attach either a new PDF (resume) or an existing resume_id
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        job_id        formData  int     true   "Job ID"
// @Param        cover_letter  formData  string  false  "Cover letter (max 5000 chars)"
// @Param        resume        formData  file    false  "Resume PDF"
// @Param        resume_id     formData  int     false  "Existing resume ID"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	jobID, err := strconv.ParseInt(c.PostForm("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		c.Error(apperror.Validation(map[string]string{"job_id": "must be a valid job id"}))
		return
	}
	in := domain.ApplyInput{JobID: jobID}

	if cl := strings.TrimSpace(c.PostForm("cover_letter")); cl != "" {
		in.CoverLetter = &cl
	}
	if raw := c.PostForm("resume_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.Error(apperror.Validation(map[string]string{"resume_id": "must be a valid resume id"}))
			return
		}
		in.ResumeID = &id
	}
	if in.Upload, err = readUpload(c, "resume", security.MaxResumeBytes); err != nil {
		c.Error(err)
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), p, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMine godoc
// @Summary      The caller's applications
// @Tags         applications
// @Produce      json
// @Param        page  query     int  false  "Zero-based page"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  response.Response
// @Router       /applications/me [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, err := h.appUC.ListMine(c.Request.Context(), p, pageRequest(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", page)
}

// Get godoc
// @Summary      Application details
// @Description  Visible to the applicant and to the job's poster
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	app, err := h.appUC.Get(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// ViewResume godoc
// @Summary      View the resume attached to an application
// @Tags         applications
// @Produce      application/pdf
// @Param        id   path      int  true  "Application ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/resume/view [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ViewResume(c *gin.Context) {
	h.resume(c, "inline")
}

// DownloadResume godoc
// @Summary      Download the resume attached to an application
// @Tags         applications
// @Produce      application/pdf
// @Param        id   path      int  true  "Application ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/resume/download [get]
// @Security     BearerAuth
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	h.resume(c, "attachment")
}

func (h *ApplicationHandler) resume(c *gin.Context, disposition string) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := h.appUC.OpenResume(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	streamResume(c, file, disposition)
}

// UpdateStatus godoc
// @Summary      Move an application through its lifecycle
// @Description  The applicant may only withdraw; every other transition belongs to the job poster
// @Tags         applications
// @Produce      json
// @Param        id      path      int     true  "Application ID"
// @Param        status  query     string  true  "Target status"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	next, err := domain.ParseApplicationStatus(c.Query("status"))
	if err != nil {
		c.Error(apperror.Validation(map[string]string{"status": "must be a valid application status"}))
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), p, id, next)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}
