package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/notification"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/async"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/embedding"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/messaging"
	"go-jobboard-backend/pkg/pdftext"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/scheduler"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/vectorindex"
)

// @title           Job Board API
// @version         1.0
// @description     Job postings, applications, resumes and skill-based job matching.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis is optional: rate limits fall back to memory, login tracking and matching switch off
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable", "error", err)
	} else {
		defer redis.Close()
	}
	redisClient := redis.Client()

	// 5. Resume storage
	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Provider:        storage.S3Provider(cfg.S3Provider),
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    cfg.S3UsePathStyle,
	})
	if err != nil {
		logger.Log.Error("Failed to configure object storage", "error", err)
		os.Exit(1)
	}
	blobs := storage.NewS3Store(s3Client, cfg.S3Bucket)

	// 6. Background work and mail
	runner := async.NewRunner(int64(cfg.BackgroundTasks), cfg.UpstreamTimeout*3, logger.Log)

	var mailer domain.Mailer
	if cfg.AMQPURL != "" {
		conn, err := messaging.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Log.Error("Failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		publisher, err := messaging.NewPublisher(conn, cfg.MailQueue)
		if err != nil {
			logger.Log.Error("Failed to open mail queue", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		mailer = notification.NewQueueMailer(publisher)
		logger.Log.Info("Mail is dispatched through the queue", "queue", cfg.MailQueue)
	} else {
		emailService := email.NewEmailService(cfg)
		if !emailService.IsConfigured() {
			logger.Log.Warn("Email service not fully configured - activation mails will fail")
		}
		mailer = notification.NewSMTPMailer(emailService)
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	tokenRepo := postgres.NewActivationTokenRepository(dbPool)
	skillRepo := postgres.NewSkillRepository(dbPool)
	userSkillRepo := postgres.NewUserSkillRepository(dbPool)
	experienceRepo := postgres.NewExperienceRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	socialLinkRepo := postgres.NewSocialLinkRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 8. Matching index
	var index domain.SimilarityIndex
	if cfg.MatchingEnabled() && redisClient != nil {
		embedder, err := embedding.NewGoogleAIEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
		if err != nil {
			logger.Log.Error("Failed to create embedder", "error", err)
			os.Exit(1)
		}
		redisIndex := vectorindex.NewRedisIndex(redisClient, embedder, vectorindex.Config{
			Name:      cfg.MatchIndexName,
			Prefix:    cfg.MatchIndexName + ":",
			Dimension: cfg.EmbeddingDim,
		})
		if err := redisIndex.EnsureIndex(ctx); err != nil {
			logger.Log.Error("Failed to create similarity index", "error", err)
			os.Exit(1)
		}
		index = redisIndex
	} else {
		logger.Log.Warn("Job matching disabled - set GOOGLE_API_KEY and REDIS_URL to enable it")
	}

	// 9. Setup UseCases
	audit := security.DefaultLogger()
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, redisClient, audit)

	authUC := usecase.NewAuthUsecase(usecase.AuthDeps{
		Users:         userRepo,
		Tokens:        tokenRepo,
		Issuer:        issuer,
		Guard:         loginTracker,
		Mailer:        mailer,
		Tasks:         runner,
		Audit:         audit,
		ActivationURL: cfg.FrontendURL + "/activate",
	})
	skillUC := usecase.NewSkillUsecase(skillRepo)
	profileUC := usecase.NewProfileUsecase(usecase.ProfileDeps{
		Users:       userRepo,
		UserSkills:  userSkillRepo,
		Skills:      skillRepo,
		SkillUC:     skillUC,
		Experiences: experienceRepo,
		Projects:    projectRepo,
		SocialLinks: socialLinkRepo,
	})
	resumeUC := usecase.NewResumeUsecase(resumeRepo, blobs, cfg.UpstreamTimeout)
	matchingUC := usecase.NewMatchingUsecase(index, jobRepo, userSkillRepo, runner, usecase.MatchingConfig{
		TopK:      cfg.MatchTopK,
		Threshold: cfg.MatchThreshold,
	})
	jobUC := usecase.NewJobUsecase(jobRepo, skillRepo, matchingUC)
	applicationUC := usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Apps:       applicationRepo,
		Jobs:       jobRepo,
		Resumes:    resumeRepo,
		ResumeUC:   resumeUC,
		UserSkills: userSkillRepo,
		Blobs:      blobs,
		Extractor:  pdftext.NewExtractor(),
		Mailer:     mailer,
		Tasks:      runner,
		Audit:      audit,
		Timeout:    cfg.UpstreamTimeout,
	})

	checks := map[string]usecase.Pinger{"database": dbPool.Ping}
	if redisClient != nil {
		checks["redis"] = redis.HealthCheck
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 10. Scheduled jobs
	cron := scheduler.New(time.Minute, logger.Log)
	if err := cron.Add(cfg.TokenCleanupCron, "purge_activation_tokens", func(ctx context.Context) error {
		n, err := authUC.PurgeStaleTokens(ctx)
		if err == nil && n > 0 {
			logger.Log.Info("Purged stale activation tokens", "count", n)
		}
		return err
	}); err != nil {
		logger.Log.Error("Invalid cron expression", "spec", cfg.TokenCleanupCron, "error", err)
		os.Exit(1)
	}
	cron.Start()

	// 11. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		SkillUC:       skillUC,
		ProfileUC:     profileUC,
		ResumeUC:      resumeUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		MatchingUC:    matchingUC,
		HealthUC:      healthUC,
		Issuer:        issuer,
		UploadLimiter: security.NewUploadLimiter(redisClient, 0, 0),
		Config:        cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	cron.Stop(shutdownCtx)
	if err := runner.Wait(shutdownCtx); err != nil {
		logger.Log.Warn("Background tasks still running at exit", "error", err)
	}

	logger.Log.Info("Server exiting")
}
