package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillUC domain.SkillUsecase
}

func NewSkillHandler(protected *gin.RouterGroup, skillUC domain.SkillUsecase) {
	handler := &SkillHandler{skillUC: skillUC}

	skills := protected.Group("/skills")
	{
		skills.POST("", handler.Create)
		skills.GET("", handler.List)
		skills.GET("/name", handler.GetByName)
		skills.PUT("/:id", handler.Update)
	}
}

type SkillRequest struct {
	Name     string  `json:"name" binding:"required,max=100,no_emoji"`
	Category *string `json:"category" binding:"omitempty,max=100"`
}

// Create godoc
// @Summary      Add a skill to the catalog
// @Tags         skills
// @Accept       json
// @Produce      json
// @Param        skill  body      SkillRequest  true  "Skill"
// @Success      201    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /skills [post]
// @Security     BearerAuth
func (h *SkillHandler) Create(c *gin.Context) {
	var req SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.skillUC.Create(c.Request.Context(), domain.SkillInput{Name: req.Name, Category: req.Category})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Skill created", skill)
}

// List godoc
// @Summary      List the skill catalog
// @Tags         skills
// @Produce      json
// @Param        page  query     int  false  "Zero-based page"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  response.Response
// @Router       /skills [get]
// @Security     BearerAuth
func (h *SkillHandler) List(c *gin.Context) {
	page, err := h.skillUC.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skills retrieved", page)
}

// GetByName godoc
// @Summary      Find a skill by name, ignoring case and whitespace
// @Tags         skills
// @Produce      json
// @Param        name  query     string  true  "Skill name"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /skills/name [get]
// @Security     BearerAuth
func (h *SkillHandler) GetByName(c *gin.Context) {
	skill, err := h.skillUC.GetByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill retrieved", skill)
}

// Update godoc
// @Summary      Rename or recategorize a skill
// @Tags         skills
// @Accept       json
// @Produce      json
// @Param        id     path      int           true  "Skill ID"
// @Param        skill  body      SkillRequest  true  "Skill"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /skills/{id} [put]
// @Security     BearerAuth
func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SkillRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.skillUC.Update(c.Request.Context(), id, domain.SkillInput{Name: req.Name, Category: req.Category})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill updated", skill)
}
