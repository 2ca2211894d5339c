package http

import (
	"github.com/gin-gonic/gin"
	"github.com/grocerylens/backend/config"
	"github.com/sirupsen/logrus"
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
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logrus.StandardLogger()))
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	// Root-level paths are what the mobile client calls
	router.POST("/process_image", handler.ProcessImage)
	router.POST("/recommendations", handler.Recommendations)
	router.GET("/images/*filename", handler.ServeImage)

	return router
}
