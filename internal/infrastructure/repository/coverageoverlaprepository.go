package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/reconciliation"
	"seatwise/internal/infrastructure/persistence/models"
	"seatwise/internal/shared/logger"
)

// CoverageOverlapRepositoryImpl implements the reconciliation.OverlapRepository interface
type CoverageOverlapRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewCoverageOverlapRepository creates a new coverage overlap repository instance
func NewCoverageOverlapRepository(db *gorm.DB, logger logger.Interface) reconciliation.OverlapRepository {
	return &CoverageOverlapRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the overlap or refreshes the row keyed by
// (learner, feature, period start), so scan re-runs never duplicate rows.
func (r *CoverageOverlapRepositoryImpl) Upsert(ctx context.Context, overlap *reconciliation.CoverageOverlap) error {
	model := &models.CoverageOverlapModel{
		SID:                   overlap.SID(),
		LearnerID:             overlap.LearnerID(),
		OrganizationID:        overlap.OrganizationID(),
		FeatureKey:            overlap.FeatureKey().String(),
		PeriodStart:           overlap.PeriodStart(),
		PeriodEnd:             overlap.PeriodEnd(),
		IndividualChargeCents: overlap.IndividualCharge().AmountInCents(),
		PotentialCreditCents:  overlap.PotentialCredit().AmountInCents(),
		Currency:              overlap.IndividualCharge().Currency(),
		RecommendedAction:     overlap.Action().String(),
		DetectedAt:            overlap.DetectedAt(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "learner_id"}, {Name: "feature_key"}, {Name: "period_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"potential_credit_cents",
				"recommended_action",
				"detected_at",
				"updated_at",
			}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert coverage overlap",
			"learner_id", overlap.LearnerID(),
			"feature_key", overlap.FeatureKey(),
			"error", err)
		return fmt.Errorf("failed to upsert coverage overlap: %w", err)
	}

	if overlap.ID() == 0 && model.ID != 0 {
		if err := overlap.SetID(model.ID); err != nil {
			r.logger.Warnw("failed to set coverage overlap ID after upsert", "error", err)
		}
	}
	return nil
}

// ListByOrganization returns overlaps detected since the given time
func (r *CoverageOverlapRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint, since time.Time) ([]*reconciliation.CoverageOverlap, error) {
	var overlapModels []models.CoverageOverlapModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND detected_at >= ?", organizationID, since).
		Order("detected_at DESC").
		Find(&overlapModels).Error; err != nil {
		r.logger.Errorw("failed to list coverage overlaps", "organization_id", organizationID, "error", err)
		return nil, fmt.Errorf("failed to list coverage overlaps: %w", err)
	}

	overlaps := make([]*reconciliation.CoverageOverlap, len(overlapModels))
	for i, model := range overlapModels {
		overlap, err := reconciliation.ReconstructCoverageOverlap(reconciliation.ReconstructCoverageOverlapParams{
			ID:               model.ID,
			SID:              model.SID,
			LearnerID:        model.LearnerID,
			OrganizationID:   model.OrganizationID,
			FeatureKey:       coverage.FeatureKey(model.FeatureKey),
			PeriodStart:      model.PeriodStart,
			PeriodEnd:        model.PeriodEnd,
			IndividualCharge: coverage.NewMoney(model.IndividualChargeCents, model.Currency),
			PotentialCredit:  coverage.NewMoney(model.PotentialCreditCents, model.Currency),
			Action:           reconciliation.RecommendedAction(model.RecommendedAction),
			DetectedAt:       model.DetectedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct coverage overlap %d: %w", model.ID, err)
		}
		overlaps[i] = overlap
	}
	return overlaps, nil
}
