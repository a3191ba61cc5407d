package routes

import (
	"github.com/gin-gonic/gin"

	"seatwise/internal/interfaces/http/handlers"
	"seatwise/internal/interfaces/http/middleware"
)

// ReconciliationRouteConfig contains dependencies for reconciliation routes.
type ReconciliationRouteConfig struct {
	ReconciliationHandler *handlers.ReconciliationHandler
	AuthMiddleware        *middleware.AuthMiddleware
}

// SetupReconciliationRoutes configures the on-demand scan route.
// Routes: /api/v1/reconciliation/*
func SetupReconciliationRoutes(group *gin.RouterGroup, cfg *ReconciliationRouteConfig) {
	reconciliation := group.Group("/reconciliation")
	reconciliation.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		reconciliation.POST("/scan", cfg.ReconciliationHandler.TriggerScan)
	}
}
