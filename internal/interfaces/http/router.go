// Package http wires the admin API: repositories, use cases, handlers, and
// routes behind a single gin engine.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	enforcementUC "seatwise/internal/application/enforcement/usecases"
	reconciliationUC "seatwise/internal/application/reconciliation/usecases"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/reconciliation"
	"seatwise/internal/domain/seat"
	"seatwise/internal/infrastructure/auth"
	"seatwise/internal/infrastructure/cache"
	"seatwise/internal/infrastructure/config"
	"seatwise/internal/infrastructure/repository"
	"seatwise/internal/infrastructure/subscription"
	"seatwise/internal/interfaces/http/handlers"
	"seatwise/internal/interfaces/http/middleware"
	"seatwise/internal/interfaces/http/routes"
	"seatwise/internal/shared/logger"
	"seatwise/internal/shared/utils"
)

// Router holds the configured gin engine and its handlers.
type Router struct {
	engine                *gin.Engine
	enforcementHandler    *handlers.EnforcementHandler
	reconciliationHandler *handlers.ReconciliationHandler
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	poolRepo := repository.NewSeatPoolRepository(db, log)
	assignmentRepo := repository.NewSeatAssignmentRepository(db, log)
	grantRepo := repository.NewFeatureGrantRepository(db, log)
	overlapRepo := repository.NewCoverageOverlapRepository(db, log)
	learnerDir := repository.NewLearnerDirectory(db, log)

	allocator := seat.NewAllocator(poolRepo, assignmentRepo, log)

	catalog := make([]coverage.FeatureKey, 0, len(cfg.Coverage.Catalog))
	for _, key := range cfg.Coverage.Catalog {
		catalog = append(catalog, coverage.FeatureKey(key))
	}
	resolver := coverage.NewResolver(coverage.NewFeatureSet(catalog...))

	profileCache := cache.NewRedisCoverageProfileCache(
		redisClient,
		time.Duration(cfg.Coverage.CacheTTLMinutes)*time.Minute,
		log,
	)
	provider := subscription.NewHTTPClient(&cfg.SubscriptionProvider, log)
	scanner := reconciliation.NewScanner(learnerDir, grantRepo, provider, overlapRepo, resolver, log)

	activateUC := enforcementUC.NewActivateLearnerUseCase(allocator, learnerDir, profileCache, log)
	deactivateUC := enforcementUC.NewDeactivateLearnerUseCase(allocator, profileCache, log)
	changeBandUC := enforcementUC.NewChangeGradeBandUseCase(allocator, assignmentRepo, learnerDir, profileCache, log)
	checkAccessUC := enforcementUC.NewCheckFeatureAccessUseCase(learnerDir, grantRepo, provider, resolver, profileCache, log)
	usageUC := enforcementUC.NewGetSeatUsageSummaryUseCase(poolRepo, log)
	scanUC := reconciliationUC.NewScanCoverageOverlapsUseCase(scanner, log)
	listOverlapsUC := reconciliationUC.NewListCoverageOverlapsUseCase(overlapRepo, log)

	enforcementHandler := handlers.NewEnforcementHandler(
		activateUC, deactivateUC, changeBandUC, checkAccessUC, usageUC, log,
	)
	reconciliationHandler := handlers.NewReconciliationHandler(scanUC, listOverlapsUC, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	router := &Router{
		engine:                engine,
		enforcementHandler:    enforcementHandler,
		reconciliationHandler: reconciliationHandler,
		authMiddleware:        authMiddleware,
	}
	router.setupRoutes()
	return router
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "ok", nil)
	})

	v1 := r.engine.Group("/api/v1")

	routes.SetupLearnerRoutes(v1, &routes.LearnerRouteConfig{
		EnforcementHandler: r.enforcementHandler,
		AuthMiddleware:     r.authMiddleware,
	})
	routes.SetupOrganizationRoutes(v1, &routes.OrganizationRouteConfig{
		EnforcementHandler:    r.enforcementHandler,
		ReconciliationHandler: r.reconciliationHandler,
		AuthMiddleware:        r.authMiddleware,
	})
	routes.SetupReconciliationRoutes(v1, &routes.ReconciliationRouteConfig{
		ReconciliationHandler: r.reconciliationHandler,
		AuthMiddleware:        r.authMiddleware,
	})
}

// Engine returns the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
