package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seatwise/internal/domain/seat"
	"seatwise/internal/infrastructure/persistence/models"
	"seatwise/internal/shared/errors"
	"seatwise/internal/shared/logger"
)

// SeatAssignmentRepositoryImpl implements the seat.AssignmentRepository interface
type SeatAssignmentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSeatAssignmentRepository creates a new seat assignment repository instance
func NewSeatAssignmentRepository(db *gorm.DB, logger logger.Interface) seat.AssignmentRepository {
	return &SeatAssignmentRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Create persists a new active assignment. The unique index on the active
// learner column rejects a second active assignment for the same learner;
// that violation surfaces as seat.ErrDuplicateActiveAssignment.
func (r *SeatAssignmentRepositoryImpl) Create(ctx context.Context, assignment *seat.SeatAssignment) error {
	learnerID := assignment.LearnerID()
	model := &models.SeatAssignmentModel{
		SID:               assignment.SID(),
		LearnerID:         learnerID,
		ActiveLearnerID:   &learnerID,
		PoolID:            assignment.PoolID(),
		SchoolID:          assignment.SchoolID(),
		Tier:              assignment.Tier().String(),
		IsOverage:         assignment.IsOverage(),
		Status:            assignment.Status().String(),
		TransferredFromID: assignment.TransferredFromID(),
		CreatedAt:         assignment.CreatedAt(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return fmt.Errorf("create assignment for learner %d: %w", learnerID, seat.ErrDuplicateActiveAssignment)
		}
		r.logger.Errorw("failed to create seat assignment",
			"learner_id", learnerID,
			"pool_id", assignment.PoolID(),
			"error", err)
		return fmt.Errorf("failed to create seat assignment: %w", err)
	}

	if err := assignment.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set seat assignment ID: %w", err)
	}

	r.logger.Infow("seat assignment created",
		"id", model.ID,
		"sid", model.SID,
		"learner_id", model.LearnerID,
		"pool_id", model.PoolID,
		"is_overage", model.IsOverage)
	return nil
}

// GetByID retrieves an assignment by ID
func (r *SeatAssignmentRepositoryImpl) GetByID(ctx context.Context, assignmentID uint) (*seat.SeatAssignment, error) {
	var model models.SeatAssignmentModel
	if err := r.db.WithContext(ctx).First(&model, assignmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, seat.ErrAssignmentNotFound
		}
		r.logger.Errorw("failed to get seat assignment", "id", assignmentID, "error", err)
		return nil, fmt.Errorf("failed to get seat assignment: %w", err)
	}
	return assignmentFromModel(&model)
}

// FindActiveByLearner returns the learner's active assignment or (nil, nil)
func (r *SeatAssignmentRepositoryImpl) FindActiveByLearner(ctx context.Context, learnerID uint) (*seat.SeatAssignment, error) {
	var model models.SeatAssignmentModel
	err := r.db.WithContext(ctx).
		Where("learner_id = ? AND status = ?", learnerID, seat.AssignmentStatusActive.String()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to find active assignment", "learner_id", learnerID, "error", err)
		return nil, fmt.Errorf("failed to find active assignment: %w", err)
	}
	return assignmentFromModel(&model)
}

// End transitions an assignment out of the active state and clears the
// active-learner marker so the learner can be granted a new seat.
func (r *SeatAssignmentRepositoryImpl) End(ctx context.Context, assignmentID uint, status seat.AssignmentStatus, reason string) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.SeatAssignmentModel{}).
		Where("id = ? AND status = ?", assignmentID, seat.AssignmentStatusActive.String()).
		Updates(map[string]interface{}{
			"status":            status.String(),
			"active_learner_id": nil,
			"ended_at":          now,
			"ended_reason":      reason,
			"updated_at":        now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to end seat assignment", "id", assignmentID, "error", result.Error)
		return fmt.Errorf("failed to end seat assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.SeatAssignmentModel{}).
			Where("id = ?", assignmentID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check seat assignment state: %w", err)
		}
		if count == 0 {
			return seat.ErrAssignmentNotFound
		}
		return seat.ErrAssignmentNotActive
	}

	r.logger.Infow("seat assignment ended",
		"id", assignmentID,
		"status", status,
		"reason", reason)
	return nil
}

// ListActiveByPool returns all active assignments in a pool
func (r *SeatAssignmentRepositoryImpl) ListActiveByPool(ctx context.Context, poolID uint) ([]*seat.SeatAssignment, error) {
	var assignmentModels []models.SeatAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("pool_id = ? AND status = ?", poolID, seat.AssignmentStatusActive.String()).
		Order("id ASC").
		Find(&assignmentModels).Error; err != nil {
		r.logger.Errorw("failed to list active assignments", "pool_id", poolID, "error", err)
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}

	assignments := make([]*seat.SeatAssignment, len(assignmentModels))
	for i := range assignmentModels {
		assignment, err := assignmentFromModel(&assignmentModels[i])
		if err != nil {
			return nil, err
		}
		assignments[i] = assignment
	}
	return assignments, nil
}

func assignmentFromModel(model *models.SeatAssignmentModel) (*seat.SeatAssignment, error) {
	assignment, err := seat.ReconstructSeatAssignment(seat.SeatAssignmentReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		LearnerID:         model.LearnerID,
		PoolID:            model.PoolID,
		SchoolID:          model.SchoolID,
		Tier:              seat.Tier(model.Tier),
		IsOverage:         model.IsOverage,
		Status:            seat.AssignmentStatus(model.Status),
		TransferredFromID: model.TransferredFromID,
		CreatedAt:         model.CreatedAt,
		EndedAt:           model.EndedAt,
		EndedReason:       model.EndedReason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct seat assignment %d: %w", model.ID, err)
	}
	return assignment, nil
}
