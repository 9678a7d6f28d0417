package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindwell_backend/internal/config"
	"mindwell_backend/internal/controller"
	"mindwell_backend/internal/repository"
	"mindwell_backend/internal/service"
	"mindwell_backend/pkg/database"
	"mindwell_backend/pkg/logger"
	"mindwell_backend/pkg/monitoring"
	"mindwell_backend/pkg/security"
	"mindwell_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	stopDrain chan struct{}
}

type repositories struct {
	user    *repository.UserRepository
	history *repository.HistoryRepository
}

type services struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	scoring   *service.ScoringService
	history   *service.HistoryService
	session   *service.SessionService
	sync      *service.SyncService
	analytics *service.AnalyticsService
}

type controllers struct {
	auth       *controller.AuthController
	question   *controller.QuestionController
	assessment *controller.AssessmentController
	history    *controller.HistoryController
	sync       *controller.SyncController
	analytics  *controller.AnalyticsController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		history: repository.NewHistoryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.catalog = service.NewCatalogService(cfg.Catalog, rdb)
	s.scoring = service.NewScoringService()
	s.history = service.NewHistoryService(repos.history)
	s.session = service.NewSessionService(s.scoring, s.history)

	gateway := service.NewHTTPGateway(cfg.Remote.BaseURL, cfg.Remote.RequestTimeout)
	policy := service.NewRetryPolicy(cfg.Sync.MaxAttempts, cfg.Sync.BaseDelay)
	s.sync = service.NewSyncService(s.history, gateway, policy)

	s.analytics = service.NewAnalyticsService(repos.history, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		question:   controller.NewQuestionController(s.catalog),
		assessment: controller.NewAssessmentController(s.session, s.catalog),
		history:    controller.NewHistoryController(s.history),
		sync:       controller.NewSyncController(s.sync),
		analytics:  controller.NewAnalyticsController(s.analytics),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the periodic reconciliation drain. Failures are
// logged, never fatal; the queue is retried on the next tick.
func (a *App) startBackgroundTasks(s *services) {
	if a.Config.Sync.DrainInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(a.Config.Sync.DrainInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.sync.DrainAll(context.Background()); err != nil {
					logger.Log.Error("background sync drain error", zap.Error(err))
				}
			case <-a.stopDrain:
				return
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis only backs the catalog cache; the app runs without it.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		stopDrain: make(chan struct{}),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mindwell-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
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

	close(a.stopDrain)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
