package usecases

import (
	"context"
	"fmt"

	"seatwise/internal/application/enforcement/dto"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/seat"
	"seatwise/internal/shared/logger"
)

type ChangeGradeBandCommand struct {
	LearnerID uint
	NewTier   string
}

// ChangeGradeBandUseCase moves a learner's seat between grade band pools:
// a grant when no seat is held, a no-op when the band is unchanged, a
// transfer otherwise.
type ChangeGradeBandUseCase struct {
	allocator   *seat.Allocator
	assignments seat.AssignmentRepository
	directory   coverage.LearnerDirectory
	cache       coverage.ProfileCache
	logger      logger.Interface
}

func NewChangeGradeBandUseCase(
	allocator *seat.Allocator,
	assignments seat.AssignmentRepository,
	directory coverage.LearnerDirectory,
	cache coverage.ProfileCache,
	logger logger.Interface,
) *ChangeGradeBandUseCase {
	return &ChangeGradeBandUseCase{
		allocator:   allocator,
		assignments: assignments,
		directory:   directory,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *ChangeGradeBandUseCase) Execute(ctx context.Context, cmd ChangeGradeBandCommand) (*dto.ActivationResultDTO, error) {
	newTier := seat.Tier(cmd.NewTier)
	if !newTier.IsValid() {
		return nil, fmt.Errorf("invalid grade band: %s", cmd.NewTier)
	}

	learner, err := uc.directory.GetLearner(ctx, cmd.LearnerID)
	if err != nil {
		uc.logger.Errorw("failed to get learner", "error", err, "learner_id", cmd.LearnerID)
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	current, err := uc.assignments.FindActiveByLearner(ctx, cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active assignment: %w", err)
	}

	if current == nil {
		result, err := uc.allocator.Grant(ctx, learner.ID, learner.OrganizationID, newTier, learner.SchoolID)
		if err != nil {
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
			Activated:  true,
			Assignment: dto.AssignmentToDTO(result.Assignment),
			Warning:    result.Warning,
		}, nil
	}

	if current.Tier() == newTier {
		return &dto.ActivationResultDTO{
			Activated:     true,
			AlreadyActive: true,
			Assignment:    dto.AssignmentToDTO(current),
		}, nil
	}

	result, err := uc.allocator.Transfer(ctx, current.ID(), newTier, learner.SchoolID)
	if err != nil {
		uc.logger.Errorw("failed to transfer seat", "error", err, "learner_id", cmd.LearnerID)
		return nil, fmt.Errorf("failed to transfer seat: %w", err)
	}

	invalidateProfile(ctx, uc.cache, uc.logger, learner.ID)

	if result.Failure.IsFailure() {
		return &dto.ActivationResultDTO{
			FailureKind:  result.Failure.String(),
			Guidance:     dto.GuidanceFor(result.Failure),
			SeatReleased: result.OldSeatReleased,
		}, nil
	}

	return &dto.ActivationResultDTO{
		Activated:     true,
		AlreadyActive: result.Unchanged,
		Assignment:    dto.AssignmentToDTO(result.Assignment),
	}, nil
}
