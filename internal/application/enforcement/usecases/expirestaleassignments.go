package usecases

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/application/enforcement/dto"
	"seatwise/internal/domain/seat"
	"seatwise/internal/shared/logger"
)

type ExpireStaleAssignmentsCommand struct {
	AsOf time.Time
}

// ExpireStaleAssignmentsUseCase closes out pools whose validity window has
// ended. Run by the scheduler; safe to re-run.
type ExpireStaleAssignmentsUseCase struct {
	allocator *seat.Allocator
	logger    logger.Interface
}

func NewExpireStaleAssignmentsUseCase(allocator *seat.Allocator, logger logger.Interface) *ExpireStaleAssignmentsUseCase {
	return &ExpireStaleAssignmentsUseCase{allocator: allocator, logger: logger}
}

func (uc *ExpireStaleAssignmentsUseCase) Execute(ctx context.Context, cmd ExpireStaleAssignmentsCommand) (*dto.ExpiryResultDTO, error) {
	asOf := cmd.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	expired, err := uc.allocator.ExpireStale(ctx, asOf)
	if err != nil {
		uc.logger.Errorw("failed to expire stale assignments", "error", err)
		return nil, fmt.Errorf("failed to expire stale assignments: %w", err)
	}

	uc.logger.Infow("stale assignment sweep completed", "assignments_expired", expired)
	return &dto.ExpiryResultDTO{AssignmentsExpired: expired}, nil
}
