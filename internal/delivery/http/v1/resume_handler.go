package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
}

func NewResumeHandler(me *gin.RouterGroup, resumeUC domain.ResumeUsecase, uploadLimit gin.HandlerFunc) {
	handler := &ResumeHandler{resumeUC: resumeUC}

	resumes := me.Group("/resumes")
	{
		resumes.POST("", uploadLimit, handler.Upload)
		resumes.GET("", handler.List)
		resumes.GET("/latest", handler.Latest)
		resumes.GET("/:id/view", handler.View)
		resumes.GET("/:id/download", handler.Download)
		resumes.DELETE("/:id", handler.Delete)
	}
}

// Upload godoc
// @Summary      Upload a resume
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume PDF (max 5MB)"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /user/me/resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	upload, err := readUpload(c, "file", security.MaxResumeBytes)
	if err != nil {
		c.Error(err)
		return
	}
	if upload == nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}

	resume, err := h.resumeUC.Upload(c.Request.Context(), p, *upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume uploaded", resume)
}

// List godoc
// @Summary      The caller's resumes, newest first
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me/resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resumes, err := h.resumeUC.List(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// Latest godoc
// @Summary      The caller's most recent resume
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /user/me/resumes/latest [get]
// @Security     BearerAuth
func (h *ResumeHandler) Latest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resume, err := h.resumeUC.Latest(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume retrieved", resume)
}

// View godoc
// @Summary      View a resume inline
// @Tags         resumes
// @Produce      application/pdf
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /user/me/resumes/{id}/view [get]
// @Security     BearerAuth
func (h *ResumeHandler) View(c *gin.Context) {
	h.open(c, "inline")
}

// Download godoc
// @Summary      Download a resume
// @Tags         resumes
// @Produce      application/pdf
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /user/me/resumes/{id}/download [get]
// @Security     BearerAuth
func (h *ResumeHandler) Download(c *gin.Context) {
	h.open(c, "attachment")
}

func (h *ResumeHandler) open(c *gin.Context, disposition string) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := h.resumeUC.Open(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	streamResume(c, file, disposition)
}

// Delete godoc
// @Summary      Delete a resume
// @Description  The resume disappears from every listing; applications keep their extracted text
// @Tags         resumes
// @Produce      json
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /user/me/resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.resumeUC.Delete(c.Request.Context(), p, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume deleted", nil)
}
