package server

import (
	"github.com/gin-gonic/gin"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/export"
	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/services/health"
	"compliance-backend/internal/shared/config"
	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/server/middleware"
)

// RouterDeps carries the handlers mounted under /api.
type RouterDeps struct {
	Config                 config.Config
	Health                 *health.Service
	ScoresHandler          *audit.Handler
	RecommendationsHandler *recommendations.Handler
	ExportHandler          *export.Handler
	Limiter                *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.ScoresHandler != nil {
		deps.ScoresHandler.RegisterRoutes(api)
	}
	if deps.RecommendationsHandler != nil {
		limit := middleware.RateLimit("generation", middleware.PerMinute(deps.Config.GenerateRatePerMinute), deps.Limiter)
		deps.RecommendationsHandler.RegisterRoutes(api, limit)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
