// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"seatwise/internal/interfaces/http/handlers"
	"seatwise/internal/interfaces/http/middleware"
)

// LearnerRouteConfig contains dependencies for learner-scoped routes.
type LearnerRouteConfig struct {
	EnforcementHandler *handlers.EnforcementHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// SetupLearnerRoutes configures learner enforcement routes.
// Routes: /api/v1/learners/:id/*
func SetupLearnerRoutes(group *gin.RouterGroup, cfg *LearnerRouteConfig) {
	learners := group.Group("/learners/:id")
	learners.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		learners.POST("/activate", cfg.EnforcementHandler.ActivateLearner)
		learners.POST("/deactivate", cfg.EnforcementHandler.DeactivateLearner)
		learners.POST("/grade-band", cfg.EnforcementHandler.ChangeGradeBand)
		learners.GET("/features/:key/access", cfg.EnforcementHandler.CheckFeatureAccess)
	}
}
