// Package usecases implements the enforcement operations exposed to roster
// tooling and the admin API. Business failures come back as typed results
// with guidance; only store failures surface as errors.
package usecases

import (
	"context"
	"fmt"

	"seatwise/internal/application/enforcement/dto"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/seat"
	"seatwise/internal/shared/logger"
)

type ActivateLearnerCommand struct {
	LearnerID uint
}

type ActivateLearnerUseCase struct {
	allocator *seat.Allocator
	directory coverage.LearnerDirectory
	cache     coverage.ProfileCache
	logger    logger.Interface
}

func NewActivateLearnerUseCase(
	allocator *seat.Allocator,
	directory coverage.LearnerDirectory,
	cache coverage.ProfileCache,
	logger logger.Interface,
) *ActivateLearnerUseCase {
	return &ActivateLearnerUseCase{
		allocator: allocator,
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

func (uc *ActivateLearnerUseCase) Execute(ctx context.Context, cmd ActivateLearnerCommand) (*dto.ActivationResultDTO, error) {
	learner, err := uc.directory.GetLearner(ctx, cmd.LearnerID)
	if err != nil {
		uc.logger.Errorw("failed to get learner", "error", err, "learner_id", cmd.LearnerID)
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	tier := seat.Tier(learner.Tier)
	result, err := uc.allocator.Grant(ctx, learner.ID, learner.OrganizationID, tier, learner.SchoolID)
	if err != nil {
		uc.logger.Errorw("failed to grant seat", "error", err, "learner_id", cmd.LearnerID)
		return nil, fmt.Errorf("failed to grant seat: %w", err)
	}

	if result.Failure.IsFailure() {
		return &dto.ActivationResultDTO{
			FailureKind: result.Failure.String(),
			Guidance:    dto.GuidanceFor(result.Failure),
		}, nil
	}

	invalidateProfile(ctx, uc.cache, uc.logger, learner.ID)

	return &dto.ActivationResultDTO{
		Activated:     true,
		AlreadyActive: result.AlreadyActive,
		Assignment:    dto.AssignmentToDTO(result.Assignment),
		Warning:       result.Warning,
	}, nil
}

// invalidateProfile drops the learner's cached coverage profile after a seat
// event. Cache errors are logged, never propagated.
func invalidateProfile(ctx context.Context, cache coverage.ProfileCache, log logger.Interface, learnerID uint) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, learnerID); err != nil {
		log.Warnw("failed to invalidate coverage profile cache", "error", err, "learner_id", learnerID)
	}
}
