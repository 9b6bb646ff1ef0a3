package v1

import (
	"skillsync-backend/config"
	"skillsync-backend/internal/analysis"
	"skillsync-backend/internal/delivery/http/middleware"
	"skillsync-backend/internal/domain"
	"skillsync-backend/internal/usecase"
	"skillsync-backend/pkg/metrics"
	"skillsync-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC     domain.AuthUsecase
	AIUC       domain.AIUsecase
	AnalysisUC domain.AnalysisUsecase
	HealthUC   usecase.HealthUsecase
	Catalog    *analysis.ResourceCatalog
	Metrics    *metrics.Manager
	Config     *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	isProduction := cfg.GinMode == gin.ReleaseMode
	window := cfg.RateLimitWindow()

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, isProduction)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	NewAuthHandler(api, deps.AuthUC, isProduction,
		middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window)),
		middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window)),
	)
	NewAIHandler(api, deps.AIUC,
		middleware.RateLimitMiddleware(middleware.AnalyzeRateLimitConfig(cfg.RateLimitAnalyzeThreshold, window)),
	)
	NewResourceHandler(api, deps.Catalog)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	protected.Use(middleware.CSRFMiddleware())
	{
		NewAnalysisHandler(protected, deps.AnalysisUC)
	}

	return r
}
