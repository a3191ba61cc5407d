// The worker runs the background jobs: the hourly stale seat sweep and the
// daily coverage reconciliation scan. It shares configuration with the API
// server but runs no HTTP surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	enforcementUC "seatwise/internal/application/enforcement/usecases"
	reconciliationUC "seatwise/internal/application/reconciliation/usecases"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/reconciliation"
	"seatwise/internal/domain/seat"
	"seatwise/internal/infrastructure/config"
	"seatwise/internal/infrastructure/database"
	"seatwise/internal/infrastructure/repository"
	"seatwise/internal/infrastructure/scheduler"
	"seatwise/internal/infrastructure/subscription"
	"seatwise/internal/shared/biztime"
	"seatwise/internal/shared/logger"
)

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting seatwise worker", "environment", env)

	if err := biztime.Init(cfg.Business.Timezone); err != nil {
		log.Errorw("failed to initialize business timezone", "error", err)
		os.Exit(1)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	db := database.Get()
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
	provider := subscription.NewHTTPClient(&cfg.SubscriptionProvider, log)
	scanner := reconciliation.NewScanner(learnerDir, grantRepo, provider, overlapRepo, resolver, log)

	expireUC := enforcementUC.NewExpireStaleAssignmentsUseCase(allocator, log)
	scanUC := reconciliationUC.NewScanCoverageOverlapsUseCase(scanner, log)

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Errorw("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	expiryInterval := time.Duration(cfg.Scheduler.SeatExpiryIntervalHours) * time.Hour
	if err := manager.RegisterSeatExpiryJob(scheduler.NewSeatExpiryJob(expireUC), expiryInterval); err != nil {
		log.Errorw("failed to register seat expiry job", "error", err)
		os.Exit(1)
	}

	scanInterval := time.Duration(cfg.Scheduler.ReconciliationIntervalHours) * time.Hour
	if err := manager.RegisterReconciliationJob(scheduler.NewReconciliationJob(scanUC), scanInterval); err != nil {
		log.Errorw("failed to register reconciliation job", "error", err)
		os.Exit(1)
	}

	manager.Start()
	log.Infow("worker started",
		"seat_expiry_interval", expiryInterval,
		"reconciliation_interval", scanInterval,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down worker")
	if err := manager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}
	log.Infow("worker exited gracefully")
}
