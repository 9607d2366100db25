package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deedavisinc/leadscore-pipeline/internal/database"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/middleware"
	"github.com/deedavisinc/leadscore-pipeline/internal/services"
	"github.com/deedavisinc/leadscore-pipeline/pkg/config"
)

// RouterDeps bundles everything SetupRoutes needs. Sweep and DB may be
// nil; their endpoints adapt.
type RouterDeps struct {
	Services    *services.Services
	Sweep       *services.RescoreSweep
	SweepConfig services.SweepConfig
	Config      *config.Config
	Logger      logger.Logger
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
	DB          *database.DB
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, deps RouterDeps) {
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(deps.Config))
	r.Use(middleware.InputValidationMiddleware(deps.Config.MaxRequestSize))
	r.Use(middleware.RequestLoggingMiddleware(deps.Logger, deps.Metrics))
	if deps.Config.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(deps.Config.RateLimitPerMin))
	}

	leadHandler := NewLeadHandler(deps.Services.Leads)
	scoringHandler := NewScoringHandler(deps.Services.Scoring)
	insightsHandler := NewInsightsHandler(deps.Services.Insights)

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if deps.DB != nil {
			if err := deps.DB.HealthCheck(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "degraded",
					"database": "down",
				})
				return
			}
			body["database"] = "up"
		}
		c.JSON(http.StatusOK, body)
	})

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	{
		// Lead management
		v1.POST("/leads", leadHandler.UpsertLead)
		v1.GET("/leads", leadHandler.GetLeads)
		v1.GET("/leads/:id", leadHandler.GetLead)
		v1.DELETE("/leads/:id", leadHandler.DeleteLead)

		// Scoring
		v1.POST("/leads/:id/score", scoringHandler.ScoreLead)
		v1.GET("/leads/:id/scores", scoringHandler.GetScoreHistory)
		v1.GET("/leads/:id/scores/latest", scoringHandler.GetCurrentScore)
		v1.GET("/scoring/models", scoringHandler.GetScoringModels)

		// Portfolio analytics
		v1.GET("/insights", insightsHandler.GetInsights)

		// Rescoring sweep controls
		if deps.Sweep != nil {
			sweepHandler := NewSweepHandler(deps.Sweep, deps.SweepConfig)
			v1.GET("/sweep/status", sweepHandler.GetStatus)
			v1.POST("/sweep/run-once", sweepHandler.RunOnce)
		}
	}
}
