package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

// NewProfileHandler mounts the /user/me routes and returns the group so other handlers can nest under it.
func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) *gin.RouterGroup {
	handler := &ProfileHandler{profileUC: profileUC}

	me := protected.Group("/user/me")
	{
		me.GET("", handler.GetMe)
		me.PUT("", handler.UpdateMe)

		me.GET("/skills", handler.ListSkills)
		me.POST("/skills", handler.AddSkillByName)
		me.POST("/skills/:skillId", handler.AddSkill)
		me.DELETE("/skills/:skillId", handler.RemoveSkill)

		me.GET("/experiences", handler.ListExperiences)
		me.POST("/experiences", handler.CreateExperience)
		me.GET("/experiences/:id", handler.GetExperience)
		me.PUT("/experiences/:id", handler.UpdateExperience)
		me.DELETE("/experiences/:id", handler.DeleteExperience)

		me.GET("/projects", handler.ListProjects)
		me.POST("/projects", handler.CreateProject)
		me.GET("/projects/:id", handler.GetProject)
		me.PUT("/projects/:id", handler.UpdateProject)
		me.DELETE("/projects/:id", handler.DeleteProject)

		me.GET("/social-links", handler.ListSocialLinks)
		me.POST("/social-links", handler.CreateSocialLink)
		me.GET("/social-links/:id", handler.GetSocialLink)
		me.PUT("/social-links/:id", handler.UpdateSocialLink)
		me.DELETE("/social-links/:id", handler.DeleteSocialLink)
	}
	return me
}

type UpdateProfileRequest struct {
	FirstName  string  `json:"first_name" binding:"required,max=100,no_emoji"`
	LastName   string  `json:"last_name" binding:"required,max=100,no_emoji"`
	University *string `json:"university" binding:"omitempty,max=255"`
}

type SkillNameRequest struct {
	Name string `json:"name" binding:"required,max=100,no_emoji"`
}

type ExperienceRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Organization string  `json:"organization" binding:"required,max=255"`
	StartDate    string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Description  *string `json:"description" binding:"omitempty,max=5000"`
}

type ProjectRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  *string  `json:"description" binding:"omitempty,max=5000"`
	ProjectURL   *string  `json:"project_url" binding:"omitempty,url"`
	StartDate    *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Technologies []string `json:"technologies" binding:"omitempty,dive,max=100"`
}

type SocialLinkRequest struct {
	URL        string `json:"url" binding:"required,url,max=2048"`
	SocialType string `json:"social_type" binding:"required"`
}

func (req ExperienceRequest) toDomain() (*domain.Experience, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	return &domain.Experience{
		Title:        req.Title,
		Organization: req.Organization,
		StartDate:    start,
		EndDate:      end,
		Description:  req.Description,
	}, nil
}

func (req ProjectRequest) toDomain() (*domain.Project, error) {
	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	techs := req.Technologies
	if techs == nil {
		techs = []string{}
	}
	return &domain.Project{
		Title:        req.Title,
		Description:  req.Description,
		ProjectURL:   req.ProjectURL,
		StartDate:    start,
		EndDate:      end,
		Technologies: techs,
	}, nil
}

func (req SocialLinkRequest) toDomain() (*domain.SocialLink, error) {
	t, err := domain.ParseSocialType(req.SocialType)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"social_type": "must be one of github, linkedin, portfolio, twitter, other"})
	}
	return &domain.SocialLink{URL: req.URL, SocialType: t}, nil
}

// GetMe godoc
// @Summary      The caller's profile with skills
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	profile, err := h.profileUC.GetMe(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateMe godoc
// @Summary      Update the caller's name and university
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      UpdateProfileRequest  true  "Profile"
// @Success      200      {object}  response.Response
// @Router       /user/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.profileUC.UpdateMe(c.Request.Context(), p, domain.UpdateProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		University: req.University,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// ListSkills godoc
// @Summary      The caller's skills
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me/skills [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListSkills(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skills, err := h.profileUC.ListSkills(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skills retrieved", skills)
}

// AddSkill godoc
// @Summary      Attach a catalog skill to the caller
// @Tags         profile
// @Produce      json
// @Param        skillId  path      int  true  "Skill ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /user/me/skills/{skillId} [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddSkill(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skillID, ok := paramID(c, "skillId")
	if !ok {
		return
	}
	if err := h.profileUC.AddSkill(c.Request.Context(), p, skillID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill added", nil)
}

// AddSkillByName godoc
// @Summary      Attach a skill by name, creating it in the catalog when missing
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        skill  body      SkillNameRequest  true  "Skill name"
// @Success      200    {object}  response.Response
// @Router       /user/me/skills [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddSkillByName(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req SkillNameRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.profileUC.AddSkillByName(c.Request.Context(), p, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill added", skill)
}

// RemoveSkill godoc
// @Summary      Detach a skill from the caller
// @Tags         profile
// @Produce      json
// @Param        skillId  path      int  true  "Skill ID"
// @Success      200      {object}  response.Response
// @Router       /user/me/skills/{skillId} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skillID, ok := paramID(c, "skillId")
	if !ok {
		return
	}
	if err := h.profileUC.RemoveSkill(c.Request.Context(), p, skillID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill removed", nil)
}

// ListExperiences godoc
// @Summary      The caller's work experience
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me/experiences [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListExperiences(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	exps, err := h.profileUC.ListExperiences(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experiences retrieved", exps)
}

// GetExperience godoc
// @Summary      One experience entry
// @Tags         profile
// @Produce      json
// @Param        id   path      int  true  "Experience ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /user/me/experiences/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetExperience(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	exp, err := h.profileUC.GetExperience(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience retrieved", exp)
}

// CreateExperience godoc
// @Summary      Add an experience entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        experience  body      ExperienceRequest  true  "Experience"
// @Success      201         {object}  response.Response
// @Router       /user/me/experiences [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateExperience(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	exp, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.profileUC.CreateExperience(c.Request.Context(), p, exp); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Experience created", exp)
}

// UpdateExperience godoc
// @Summary      Replace an experience entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        id          path      int                true  "Experience ID"
// @Param        experience  body      ExperienceRequest  true  "Experience"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /user/me/experiences/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	exp, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	exp.ID = id
	if err := h.profileUC.UpdateExperience(c.Request.Context(), p, exp); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience updated", exp)
}

// DeleteExperience godoc
// @Summary      Remove an experience entry
// @Tags         profile
// @Produce      json
// @Param        id   path      int  true  "Experience ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /user/me/experiences/{id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.profileUC.DeleteExperience(c.Request.Context(), p, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience deleted", nil)
}

// ListProjects godoc
// @Summary      The caller's projects
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me/projects [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListProjects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	projects, err := h.profileUC.ListProjects(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Projects retrieved", projects)
}

func (h *ProfileHandler) GetProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, err := h.profileUC.GetProject(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project retrieved", project)
}

// CreateProject godoc
// @Summary      Add a project
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        project  body      ProjectRequest  true  "Project"
// @Success      201      {object}  response.Response
// @Router       /user/me/projects [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.profileUC.CreateProject(c.Request.Context(), p, project); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Project created", project)
}

func (h *ProfileHandler) UpdateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	project.ID = id
	if err := h.profileUC.UpdateProject(c.Request.Context(), p, project); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project updated", project)
}

func (h *ProfileHandler) DeleteProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.profileUC.DeleteProject(c.Request.Context(), p, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project deleted", nil)
}

// ListSocialLinks godoc
// @Summary      The caller's social links
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/me/social-links [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListSocialLinks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	links, err := h.profileUC.ListSocialLinks(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Social links retrieved", links)
}

func (h *ProfileHandler) GetSocialLink(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	link, err := h.profileUC.GetSocialLink(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Social link retrieved", link)
}

// CreateSocialLink godoc
// @Summary      Add a social link
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        link  body      SocialLinkRequest  true  "Social link"
// @Success      201   {object}  response.Response
// @Router       /user/me/social-links [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateSocialLink(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req SocialLinkRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.profileUC.CreateSocialLink(c.Request.Context(), p, link); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Social link created", link)
}

func (h *ProfileHandler) UpdateSocialLink(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SocialLinkRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	link.ID = id
	if err := h.profileUC.UpdateSocialLink(c.Request.Context(), p, link); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Social link updated", link)
}

func (h *ProfileHandler) DeleteSocialLink(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.profileUC.DeleteSocialLink(c.Request.Context(), p, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Social link deleted", nil)
}
