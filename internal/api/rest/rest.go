package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes.
// Middlewares guard the /api/v1 group only; the health check stays open.
func SetupRoutes(router *gin.Engine, handler Handler, middlewares ...gin.HandlerFunc) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1", middlewares...)
	{
		v1.GET("/projects", handler.GetProjects)
		v1.GET("/people", handler.GetPeople)
	}
}
