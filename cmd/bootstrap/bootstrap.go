package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickdoc/config"
	deliveryHttp "quickdoc/internal/delivery/http"
	"quickdoc/internal/delivery/http/handler"
	"quickdoc/internal/delivery/http/middleware"
	"quickdoc/internal/infrastructure/cache"
	"quickdoc/internal/infrastructure/database"
	"quickdoc/internal/repository"
	"quickdoc/internal/service"
	"quickdoc/internal/usecase"
	"quickdoc/pkg/jwt"
	"quickdoc/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	RedisClient    *redis.Client
	Server         *http.Server
	LockService    *service.KeyLockService
	MatchingEngine *service.MatchingEngine
	ExpiryScanner  *service.ExpiryScanner
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Apply schema migrations before opening the pool
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server and background services
func (app *App) initializeServer() {
	cfg := app.Config
	db := app.DB
	redisClient := app.RedisClient

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	slotRepo := repository.NewSlotRepository()
	bookingRepo := repository.NewBookingRepository()
	prefRepo := repository.NewPreferenceRepository()
	confirmRepo := repository.NewConfirmationRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	lockService := service.NewKeyLockService(log)
	limiter := service.NewRedisNotifyLimiter(redisClient, log)
	dispatcher := service.NewWebhookDispatcher(cfg.Dispatch, log)
	matchingEngine := service.NewMatchingEngine(db, log, cfg.Match, slotRepo, prefRepo, confirmRepo, limiter, dispatcher)
	expiryScanner := service.NewExpiryScanner(db, log, slotRepo, cfg.App.ExpiryScanInterval)
	app.LockService = lockService
	app.MatchingEngine = matchingEngine
	app.ExpiryScanner = expiryScanner

	// Initialize usecases
	slotUsecase := usecase.NewSlotUsecase(db, log, slotRepo, lockService, matchingEngine)
	bookingUsecase := usecase.NewBookingUsecase(db, log, slotRepo, bookingRepo, lockService, matchingEngine, cfg.App.ReopenOnCancel)
	preferenceUsecase := usecase.NewPreferenceUsecase(db, log, prefRepo, cfg.Match.DefaultDailyCap)
	confirmationUsecase := usecase.NewConfirmationUsecase(db, log, confirmRepo, bookingUsecase)

	// Initialize handlers
	slotHandler := handler.NewSlotHandler(slotUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	preferenceHandler := handler.NewPreferenceHandler(preferenceUsecase, customValidator)
	confirmationHandler := handler.NewConfirmationHandler(confirmationUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(slotHandler, bookingHandler, preferenceHandler, confirmationHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start background expiry scanning
	app.ExpiryScanner.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop background services before closing connections they depend on
	app.ExpiryScanner.Stop()
	app.MatchingEngine.Stop()
	app.LockService.Stop()

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
