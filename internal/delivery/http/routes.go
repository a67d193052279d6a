package http

import (
	"github.com/gin-gonic/gin"
	"github.com/medscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Barcode resolution
		barcode := v1.Group("/barcode")
		{
			barcode.POST("/resolve", handler.ResolveBarcode)
		}

		// Stored product records
		records := v1.Group("/records")
		{
			records.GET("", handler.ListRecords)
			records.GET("/:barcode", handler.GetRecord)
			records.PUT("/:barcode", handler.UpsertRecord)
			records.DELETE("/:barcode", handler.DeleteRecord)
		}
	}

	return router
}
