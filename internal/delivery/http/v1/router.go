package v1

import (
	"time"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	SkillUC       domain.SkillUsecase
	ProfileUC     domain.ProfileUsecase
	ResumeUC      domain.ResumeUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	MatchingUC    domain.MatchingUsecase
	HealthUC      usecase.HealthUsecase
	Issuer        domain.TokenIssuer
	UploadLimiter *security.UploadLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	release := gin.Mode() == gin.ReleaseMode
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// preflight requests are answered before any other check
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, release))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(release))
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.CSRFMiddleware(release))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", healthHandler(deps.HealthUC))

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uploadLimit := middleware.UploadLimit(deps.UploadLimiter)
	authLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitLoginThreshold, window))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Issuer))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, release, authLimit)
		NewSkillHandler(protected, deps.SkillUC)
		me := NewProfileHandler(protected, deps.ProfileUC)
		NewResumeHandler(me, deps.ResumeUC, uploadLimit)
		NewJobHandler(protected, deps.JobUC, deps.MatchingUC, deps.ApplicationUC)
		NewApplicationHandler(protected, deps.ApplicationUC, uploadLimit)
	}

	return r
}
