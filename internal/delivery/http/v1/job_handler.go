package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC      domain.JobUsecase
	matchingUC domain.MatchingUsecase
	appUC      domain.ApplicationUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase, matchingUC domain.MatchingUsecase, appUC domain.ApplicationUsecase) {
	handler := &JobHandler{jobUC: jobUC, matchingUC: matchingUC, appUC: appUC}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/mine", handler.ListMine)
		jobs.GET("/matched", handler.Matched)
		jobs.GET("/:id", handler.Get)
		jobs.POST("", handler.Create)
		jobs.PATCH("/:id", handler.Update)
		jobs.PATCH("/:id/pause", handler.Pause)
		jobs.PATCH("/:id/resume", handler.Resume)
		jobs.PATCH("/:id/close", handler.Close)
		jobs.GET("/:id/applications", handler.ListApplications)
		jobs.GET("/:id/applications/export", handler.ExportApplications)
		jobs.GET("/:id/applications/:status", handler.ListApplications)
	}
}

type CreateJobRequest struct {
	Title       string  `json:"title" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Seniority   string  `json:"seniority" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Location    *string `json:"location"`
	Description string  `json:"description" binding:"required"`
	SkillIDs    []int64 `json:"skill_ids" binding:"required,min=1"`
}

type UpdateJobRequest struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	Seniority   *string `json:"seniority"`
	Model       *string `json:"model"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	SkillIDs    []int64 `json:"skill_ids"`
}

// jobEnums parses the enum fields present in a request, collecting one message per bad field.
type jobEnums struct {
	fields map[string]string
}

func (e *jobEnums) parse(field string, raw *string, fn func(string) error) {
	if raw == nil {
		return
	}
	if err := fn(*raw); err != nil {
		if e.fields == nil {
			e.fields = map[string]string{}
		}
		e.fields[field] = fmt.Sprintf("invalid value %q", *raw)
	}
}

func (e *jobEnums) err() error {
	if len(e.fields) > 0 {
		return apperror.Validation(e.fields)
	}
	return nil
}

func (r CreateJobRequest) toInput() (domain.CreateJobInput, error) {
	in := domain.CreateJobInput{
		Title:       r.Title,
		Location:    r.Location,
		Description: r.Description,
		SkillIDs:    r.SkillIDs,
	}
	var e jobEnums
	e.parse("type", &r.Type, func(s string) (err error) { in.Type, err = domain.ParseJobType(s); return })
	e.parse("seniority", &r.Seniority, func(s string) (err error) { in.Seniority, err = domain.ParseJobSeniority(s); return })
	e.parse("model", &r.Model, func(s string) (err error) { in.Model, err = domain.ParseJobModel(s); return })
	return in, e.err()
}

func (r UpdateJobRequest) toInput() (domain.UpdateJobInput, error) {
	in := domain.UpdateJobInput{
		Title:       r.Title,
		Location:    r.Location,
		Description: r.Description,
		SkillIDs:    r.SkillIDs,
	}
	var e jobEnums
	e.parse("type", r.Type, func(s string) error {
		v, err := domain.ParseJobType(s)
		in.Type = &v
		return err
	})
	e.parse("seniority", r.Seniority, func(s string) error {
		v, err := domain.ParseJobSeniority(s)
		in.Seniority = &v
		return err
	})
	e.parse("model", r.Model, func(s string) error {
		v, err := domain.ParseJobModel(s)
		in.Model = &v
		return err
	})
	return in, e.err()
}

// List godoc
// @Summary      List open jobs
// @Tags         jobs
// @Produce      json
// @Param        page  query     int  false  "Zero-based page"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	page, err := h.jobUC.ListOpen(c.Request.Context(), pageRequest(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", page)
}

// ListMine godoc
// @Summary      List jobs posted by the caller
// @Tags         jobs
// @Produce      json
// @Param        page  query     int  false  "Zero-based page"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  response.Response
// @Router       /jobs/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, err := h.jobUC.ListMine(c.Request.Context(), p, pageRequest(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", page)
}

// Matched godoc
// @Summary      Jobs matching the caller's skills
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /jobs/matched [get]
// @Security     BearerAuth
func (h *JobHandler) Matched(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	matched, err := h.matchingUC.FindMatchedJobs(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matched jobs retrieved", matched)
}

// Get godoc
// @Summary      Job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// Create godoc
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.Create(c.Request.Context(), p, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// Update godoc
// @Summary      Partially update a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int               true  "Job ID"
// @Param        job  body      UpdateJobRequest  true  "Fields to change"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.Update(c.Request.Context(), p, id, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

type jobTransition func(ctx *gin.Context, p domain.Principal, id int64) (*domain.Job, error)

func (h *JobHandler) transition(c *gin.Context, message string, fn jobTransition) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := fn(c, p, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, job)
}

// Pause godoc
// @Summary      Pause an open job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/pause [patch]
// @Security     BearerAuth
func (h *JobHandler) Pause(c *gin.Context) {
	h.transition(c, "Job paused", func(ctx *gin.Context, p domain.Principal, id int64) (*domain.Job, error) {
		return h.jobUC.Pause(ctx.Request.Context(), p, id)
	})
}

// Resume godoc
// @Summary      Reopen a paused job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/resume [patch]
// @Security     BearerAuth
func (h *JobHandler) Resume(c *gin.Context) {
	h.transition(c, "Job resumed", func(ctx *gin.Context, p domain.Principal, id int64) (*domain.Job, error) {
		return h.jobUC.Resume(ctx.Request.Context(), p, id)
	})
}

// Close godoc
// @Summary      Close a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/close [patch]
// @Security     BearerAuth
func (h *JobHandler) Close(c *gin.Context) {
	h.transition(c, "Job closed", func(ctx *gin.Context, p domain.Principal, id int64) (*domain.Job, error) {
		return h.jobUC.Close(ctx.Request.Context(), p, id)
	})
}

// ListApplications godoc
// @Summary      Applications to one of the caller's jobs
// @Tags         applications
// @Produce      json
// @Param        id      path      int     true   "Job ID"
// @Param        status  path      string  false  "Application status filter"
// @Param        page    query     int     false  "Zero-based page"
// @Param        size    query     int     false  "Page size (max 100)"
// @Success      200     {object}  response.Response
// @Router       /jobs/{id}/applications [get]
// @Router       /jobs/{id}/applications/{status} [get]
// @Security     BearerAuth
func (h *JobHandler) ListApplications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var status *domain.ApplicationStatus
	if raw := c.Param("status"); raw != "" {
		s, err := domain.ParseApplicationStatus(raw)
		if err != nil {
			c.Error(apperror.BadRequestf("Unknown application status %q", raw))
			return
		}
		status = &s
	}

	page, err := h.appUC.ListForJob(c.Request.Context(), p, id, status, pageRequest(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", page)
}

// ExportApplications godoc
// @Summary      Export a job's applications as xlsx
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      int  true  "Job ID"
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/applications/export [get]
// @Security     BearerAuth
func (h *JobHandler) ExportApplications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// rendered into memory first so errors still produce a JSON envelope
	var buf bytes.Buffer
	if err := h.appUC.ExportForJob(c.Request.Context(), p, id, &buf); err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"job-%d-applications.xlsx\"", id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
