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

	"skillsync-backend/config"
	_ "skillsync-backend/docs" // Important for Swagger
	"skillsync-backend/internal/analysis"
	v1 "skillsync-backend/internal/delivery/http/v1"
	"skillsync-backend/internal/domain"
	"skillsync-backend/internal/repository/postgres"
	"skillsync-backend/internal/repository/sqlite"
	"skillsync-backend/internal/usecase"
	"skillsync-backend/pkg/auth"
	"skillsync-backend/pkg/database"
	"skillsync-backend/pkg/llm"
	"skillsync-backend/pkg/logger"
	"skillsync-backend/pkg/metrics"
	"skillsync-backend/pkg/redis"
	"skillsync-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const defaultSQLitePath = "skillsync.db"

// @title           SkillSync API
// @version         1.0
// @description     Resume and job description analysis with saved reports.
// @host            localhost:8080
// @BasePath        /api
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
	logger.Log.Info("Starting skillsync backend", "config", cfg)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	auditLog := security.InitSecurityLogger("skillsync-api", gin.Mode())
	defer func() { _ = auditLog.Sync() }()

	ctx := context.Background()

	// 3. Setup Database and Repositories
	var (
		userRepo     domain.UserRepository
		analysisRepo domain.AnalysisRepository
		dbPing       usecase.PingFunc
	)
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		path := cfg.DBUrl
		if path == "" {
			path = defaultSQLitePath
		}
		db, err := database.NewSQLiteConnection(ctx, path)
		if err != nil {
			logger.Log.Error("Failed to open sqlite database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		userRepo = sqlite.NewUserRepository(db)
		analysisRepo = sqlite.NewAnalysisRepository(db)
		dbPing = db.PingContext
	default:
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := database.MigratePostgres(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}

		userRepo = postgres.NewUserRepository(dbPool)
		analysisRepo = postgres.NewAnalysisRepository(dbPool)
		dbPing = dbPool.Ping
	}

	// 4. Setup Redis (optional)
	var redisPing usecase.PingFunc
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		}
	} else {
		redisPing = redis.HealthCheck
		defer func() { _ = redis.Close() }()
	}

	// 5. Setup Metrics and Completion Client
	metricsManager := metrics.NewManager()

	completer, err := llm.New(ctx, llm.Config{
		Provider:    cfg.LLMProvider,
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, metricsManager)
	if err != nil {
		logger.Log.Error("Failed to create completion client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Log.Error("Failed to create token issuer", "error", err)
		os.Exit(1)
	}

	// 6. Setup UseCases
	validate := validator.New()
	catalog := analysis.NewResourceCatalog(cfg.ResourceSearchURL)

	authUC := usecase.NewAuthUsecase(userRepo, tokens)
	aiUC := usecase.NewAIUsecase(completer, catalog, metricsManager)
	analysisUC := usecase.NewAnalysisUsecase(analysisRepo, validate)
	healthUC := usecase.NewHealthUsecase(dbPing, redisPing)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:     authUC,
		AIUC:       aiUC,
		AnalysisUC: analysisUC,
		HealthUC:   healthUC,
		Catalog:    catalog,
		Metrics:    metricsManager,
		Config:     cfg,
	})

	// 8. Start Server
	// WriteTimeout leaves room for five sequential completion calls.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5*cfg.LLMTimeout + 30*time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
