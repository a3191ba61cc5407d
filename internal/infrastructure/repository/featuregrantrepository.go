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

// FeatureGrantRepositoryImpl implements the coverage.FeatureGrantRepository interface
type FeatureGrantRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewFeatureGrantRepository creates a new feature grant repository instance
func NewFeatureGrantRepository(db *gorm.DB, logger logger.Interface) coverage.FeatureGrantRepository {
	return &FeatureGrantRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Create persists a new feature grant
func (r *FeatureGrantRepositoryImpl) Create(ctx context.Context, grant *coverage.FeatureGrant) error {
	model := &models.FeatureGrantModel{
		OrganizationID: grant.OrganizationID(),
		FeatureKey:     grant.FeatureKey().String(),
		Tier:           grant.Tier(),
		WindowStart:    grant.WindowStart(),
		WindowEnd:      grant.WindowEnd(),
		Active:         grant.IsActive(),
		CreatedAt:      grant.CreatedAt(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create feature grant",
			"organization_id", grant.OrganizationID(),
			"feature_key", grant.FeatureKey(),
			"error", err)
		return fmt.Errorf("failed to create feature grant: %w", err)
	}

	if err := grant.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set feature grant ID: %w", err)
	}

	r.logger.Infow("feature grant created",
		"id", model.ID,
		"organization_id", model.OrganizationID,
		"feature_key", model.FeatureKey)
	return nil
}

// ListActiveByOrganization returns grants active at asOf for an organization
func (r *FeatureGrantRepositoryImpl) ListActiveByOrganization(ctx context.Context, organizationID uint, asOf time.Time) ([]*coverage.FeatureGrant, error) {
	var grantModels []models.FeatureGrantModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND active = ?", organizationID, true).
		Where("window_start <= ? AND window_end > ?", asOf, asOf).
		Find(&grantModels).Error; err != nil {
		r.logger.Errorw("failed to list feature grants", "organization_id", organizationID, "error", err)
		return nil, fmt.Errorf("failed to list feature grants: %w", err)
	}

	grants := make([]*coverage.FeatureGrant, len(grantModels))
	for i, model := range grantModels {
		grant, err := coverage.ReconstructFeatureGrant(
			model.ID,
			model.OrganizationID,
			coverage.FeatureKey(model.FeatureKey),
			model.Tier,
			model.WindowStart,
			model.WindowEnd,
			model.Active,
			model.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct feature grant %d: %w", model.ID, err)
		}
		grants[i] = grant
	}
	return grants, nil
}

// Deactivate marks a grant inactive
func (r *FeatureGrantRepositoryImpl) Deactivate(ctx context.Context, grantID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.FeatureGrantModel{}).
		Where("id = ?", grantID).
		Update("active", false)
	if result.Error != nil {
		r.logger.Errorw("failed to deactivate feature grant", "id", grantID, "error", result.Error)
		return fmt.Errorf("failed to deactivate feature grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return coverage.ErrGrantNotFound
	}

	r.logger.Infow("feature grant deactivated", "id", grantID)
	return nil
}
