package usecases

import (
	"context"
	"fmt"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/seat"
	"seatwise/internal/shared/logger"
)

type DeactivateLearnerCommand struct {
	LearnerID uint
	Reason    string
}

// DeactivateLearnerUseCase releases a learner's seat. A learner without an
// active seat deactivates successfully as a no-op.
type DeactivateLearnerUseCase struct {
	allocator *seat.Allocator
	cache     coverage.ProfileCache
	logger    logger.Interface
}

func NewDeactivateLearnerUseCase(
	allocator *seat.Allocator,
	cache coverage.ProfileCache,
	logger logger.Interface,
) *DeactivateLearnerUseCase {
	return &DeactivateLearnerUseCase{
		allocator: allocator,
		cache:     cache,
		logger:    logger,
	}
}

func (uc *DeactivateLearnerUseCase) Execute(ctx context.Context, cmd DeactivateLearnerCommand) error {
	reason := cmd.Reason
	if reason == "" {
		reason = "deactivated by administrator"
	}

	if err := uc.allocator.Revoke(ctx, cmd.LearnerID, reason); err != nil {
		uc.logger.Errorw("failed to revoke seat", "error", err, "learner_id", cmd.LearnerID)
		return fmt.Errorf("failed to revoke seat: %w", err)
	}

	invalidateProfile(ctx, uc.cache, uc.logger, cmd.LearnerID)
	return nil
}
