package routes

import (
	"github.com/gin-gonic/gin"

	"seatwise/internal/interfaces/http/handlers"
	"seatwise/internal/interfaces/http/middleware"
)

// OrganizationRouteConfig contains dependencies for organization-scoped routes.
type OrganizationRouteConfig struct {
	EnforcementHandler    *handlers.EnforcementHandler
	ReconciliationHandler *handlers.ReconciliationHandler
	AuthMiddleware        *middleware.AuthMiddleware
}

// SetupOrganizationRoutes configures organization reporting routes.
// Routes: /api/v1/organizations/:id/*
func SetupOrganizationRoutes(group *gin.RouterGroup, cfg *OrganizationRouteConfig) {
	organizations := group.Group("/organizations/:id")
	organizations.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		organizations.GET("/seat-usage", cfg.EnforcementHandler.GetSeatUsage)
		organizations.GET("/coverage-overlaps", cfg.ReconciliationHandler.ListOverlaps)
	}
}
