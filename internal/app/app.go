package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenquest_backend/internal/config"
	"greenquest_backend/internal/controller"
	"greenquest_backend/internal/repository"
	"greenquest_backend/internal/service"
	"greenquest_backend/internal/util"
	"greenquest_backend/pkg/database"
	"greenquest_backend/pkg/logger"
	"greenquest_backend/pkg/monitoring"
	"greenquest_backend/pkg/security"
	"greenquest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *trace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	challenge     *repository.ChallengeRepository
	participation *repository.ParticipationRepository
	submission    *repository.SubmissionRepository
	leaderboard   *repository.LeaderboardRepository
	notification  *repository.NotificationRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	storage       *service.StorageService
	challenge     *service.ChallengeService
	participation *service.ParticipationService
	submission    *service.SubmissionService
	verification  *service.VerificationService
	leaderboard   *service.LeaderboardService
	notification  *service.NotificationService
	bus           *service.CompletionBus
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	challenge    *controller.ChallengeController
	submission   *controller.SubmissionController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig propagates a reloaded configuration to registered listeners.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		challenge:     repository.NewChallengeRepository(db),
		participation: repository.NewParticipationRepository(db),
		submission:    repository.NewSubmissionRepository(db),
		leaderboard:   repository.NewLeaderboardRepository(db),
		notification:  repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.bus = service.NewCompletionBus()
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg, nil)
	s.user = service.NewUserService(repos.user)
	s.notification = service.NewNotificationService(repos.notification, rdb)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, repos.user, rdb)

	s.challenge = service.NewChallengeService(repos.challenge, repos.user, nil)
	s.participation = service.NewParticipationService(repos.participation, repos.challenge, s.bus, s.notification, nil)
	s.submission = service.NewSubmissionService(repos.submission, repos.participation, repos.challenge, repos.user, nil)
	s.verification = service.NewVerificationService(db, repos.submission, repos.participation, repos.challenge, repos.user, s.bus, s.notification, nil)

	// Completion events fan out to the leaderboard, the user's point
	// balance and the notification feed.
	s.bus.Subscribe(s.leaderboard.HandleCompletion)
	s.bus.Subscribe(s.user.CreditPoints)
	s.bus.Subscribe(s.notification.HandleCompletion)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		challenge:    controller.NewChallengeController(s.challenge, s.participation, s.leaderboard),
		submission:   controller.NewSubmissionController(s.submission, s.verification, s.storage),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the expiry sweep that flips challenges whose
// end date has passed to inactive.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.challenge.ExpireOverdue(); err != nil {
				logger.Log.Error("challenge expiry sweep error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("greenquest-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.Log.Info("configuration reloaded",
			zap.Strings("cors_allowed_origins", c.CORS.AllowedOrigins))
	})

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
