package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/infrastructure/persistence/models"
	"seatwise/internal/shared/logger"
)

// LearnerDirectoryImpl implements the coverage.LearnerDirectory interface
// over the synced learner roster table.
type LearnerDirectoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewLearnerDirectory creates a new learner directory instance
func NewLearnerDirectory(db *gorm.DB, logger logger.Interface) coverage.LearnerDirectory {
	return &LearnerDirectoryImpl{
		db:     db,
		logger: logger,
	}
}

// GetLearner returns the learner's organization and grade band context
func (r *LearnerDirectoryImpl) GetLearner(ctx context.Context, learnerID uint) (*coverage.Learner, error) {
	var model models.LearnerModel
	if err := r.db.WithContext(ctx).First(&model, learnerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, coverage.ErrLearnerNotFound
		}
		r.logger.Errorw("failed to get learner", "id", learnerID, "error", err)
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	return &coverage.Learner{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		SchoolID:       model.SchoolID,
		Tier:           model.Tier,
	}, nil
}

// ListWithIndividualCoverage returns learner IDs flagged as holding an active
// individual subscription. The reconciliation scan iterates only this subset.
func (r *LearnerDirectoryImpl) ListWithIndividualCoverage(ctx context.Context, _ time.Time) ([]uint, error) {
	var learnerIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.LearnerModel{}).
		Where("has_individual_coverage = ?", true).
		Pluck("id", &learnerIDs).Error; err != nil {
		r.logger.Errorw("failed to list individually covered learners", "error", err)
		return nil, fmt.Errorf("failed to list individually covered learners: %w", err)
	}
	return learnerIDs, nil
}
