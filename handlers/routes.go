package handlers

import (
	"net/http"

	"hukukai-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what the HTTP layer needs
type RouterConfig struct {
	ReferenceService *service.ReferenceService
	Reference        *ReferenceHandler
	Admin            *AdminHandler
	// Gatherer backs /metrics; nil omits the route
	Gatherer prometheus.Gatherer
}

// RegisterRoutes mounts health, metrics and API routes on r
func RegisterRoutes(r *gin.Engine, cfg RouterConfig) {
	r.GET("/health", func(c *gin.Context) {
		stats, err := cfg.ReferenceService.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"corpus": stats,
		})
	})

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		// Reference endpoints
		api.POST("/references/analyze", cfg.Reference.Analyze)
		api.GET("/analyses/:id", cfg.Reference.GetAnalysis)

		api.GET("/laws/search", cfg.Reference.SearchLaws)
		api.GET("/laws/:id", cfg.Reference.GetLaw)
		api.GET("/decisions/search", cfg.Reference.SearchDecisions)
		api.GET("/decisions/:id", cfg.Reference.GetDecision)
		api.GET("/articles/search", cfg.Reference.SearchArticles)

		// Admin endpoints
		admin := api.Group("/admin", cfg.Admin.RequireAdminKey())
		admin.POST("/reset", cfg.Admin.ResetCorpus)
		admin.DELETE("/analyses/:id", cfg.Admin.DeleteAnalysis)
	}
}
