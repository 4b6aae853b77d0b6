package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Gee9999/proto-catalogue-app/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalogue := v1.Group("/catalogue")
		catalogue.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
		{
			catalogue.POST("/match", handler.MatchCatalogue)
			catalogue.POST("/preview", handler.PreviewCatalogue)
		}
	}

	return router
}
