package server

import (
	"github.com/gin-gonic/gin"

	"github.com/tattlecode/tattle/pkg/config"
)

// SetupRoutes builds the gin engine with all endpoints registered.
func SetupRoutes(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg)

	router.GET("/api/health", handler.Health)

	api := router.Group("/api")
	{
		api.POST("/upload", handler.Upload)
		api.POST("/check", handler.Check)
		api.POST("/cleanup", handler.Cleanup)
	}

	return router
}
