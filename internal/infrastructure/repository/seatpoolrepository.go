package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seatwise/internal/domain/seat"
	"seatwise/internal/infrastructure/persistence/models"
	"seatwise/internal/shared/logger"
)

// SeatPoolRepositoryImpl implements the seat.PoolRepository interface
type SeatPoolRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSeatPoolRepository creates a new seat pool repository instance
func NewSeatPoolRepository(db *gorm.DB, logger logger.Interface) seat.PoolRepository {
	return &SeatPoolRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Create persists a new seat pool
func (r *SeatPoolRepositoryImpl) Create(ctx context.Context, pool *seat.SeatPool) error {
	model := &models.SeatPoolModel{
		SID:             pool.SID(),
		OrganizationID:  pool.OrganizationID(),
		Tier:            pool.Tier().String(),
		ProductSKU:      pool.ProductSKU(),
		SeatsCommitted:  pool.SeatsCommitted(),
		SeatsAllocated:  pool.SeatsAllocated(),
		OverageUsed:     pool.OverageUsed(),
		OverageLimit:    pool.OverageLimit(),
		EnforcementMode: pool.Enforcement().String(),
		WindowStart:     pool.WindowStart(),
		WindowEnd:       pool.WindowEnd(),
		Active:          pool.IsActive(),
		CreatedAt:       pool.CreatedAt(),
		UpdatedAt:       pool.UpdatedAt(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create seat pool",
			"organization_id", pool.OrganizationID(),
			"tier", pool.Tier(),
			"error", err)
		return fmt.Errorf("failed to create seat pool: %w", err)
	}

	if err := pool.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set seat pool ID: %w", err)
	}

	r.logger.Infow("seat pool created",
		"id", model.ID,
		"sid", model.SID,
		"organization_id", model.OrganizationID,
		"tier", model.Tier,
		"seats_committed", model.SeatsCommitted)
	return nil
}

// GetByID retrieves a seat pool by ID
func (r *SeatPoolRepositoryImpl) GetByID(ctx context.Context, poolID uint) (*seat.SeatPool, error) {
	var model models.SeatPoolModel
	if err := r.db.WithContext(ctx).First(&model, poolID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, seat.ErrPoolNotFound
		}
		r.logger.Errorw("failed to get seat pool", "id", poolID, "error", err)
		return nil, fmt.Errorf("failed to get seat pool: %w", err)
	}
	return poolFromModel(&model)
}

// FindActivePool returns the active pool for (organization, tier) whose
// validity window contains asOf. When several windows overlap, the one with
// the latest end date wins.
func (r *SeatPoolRepositoryImpl) FindActivePool(ctx context.Context, organizationID uint, tier seat.Tier, asOf time.Time) (*seat.SeatPool, error) {
	var model models.SeatPoolModel
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND tier = ? AND active = ?", organizationID, tier.String(), true).
		Where("window_start <= ? AND window_end > ?", asOf, asOf).
		Order("window_end DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to find active seat pool",
			"organization_id", organizationID,
			"tier", tier,
			"error", err)
		return nil, fmt.Errorf("failed to find active seat pool: %w", err)
	}
	return poolFromModel(&model)
}

// incrementAttempts bounds the retries when both conditional claims miss a
// pool other writers keep mutating.
const incrementAttempts = 3

// ConditionalIncrement claims one seat with conditional UPDATEs. A first
// statement claims within the committed block, a second claims an overage
// seat (capped in hard mode), so concurrent claims on the last seat serialize
// in the database and exactly one wins. The overage classification comes from
// which statement landed, never from a separate read.
func (r *SeatPoolRepositoryImpl) ConditionalIncrement(ctx context.Context, poolID uint, hard bool) (*seat.IncrementResult, error) {
	for attempt := 0; attempt < incrementAttempts; attempt++ {
		committed := r.db.WithContext(ctx).
			Model(&models.SeatPoolModel{}).
			Where("id = ? AND active = ?", poolID, true).
			Where("seats_allocated < seats_committed").
			Updates(map[string]interface{}{
				"seats_allocated": gorm.Expr("seats_allocated + 1"),
				"updated_at":      time.Now().UTC(),
			})
		if committed.Error != nil {
			r.logger.Errorw("failed to increment seat pool", "id", poolID, "error", committed.Error)
			return nil, fmt.Errorf("failed to increment seat pool: %w", committed.Error)
		}
		if committed.RowsAffected > 0 {
			return &seat.IncrementResult{OK: true, IsOverage: false}, nil
		}

		overage := r.db.WithContext(ctx).
			Model(&models.SeatPoolModel{}).
			Where("id = ? AND active = ?", poolID, true).
			Where("seats_allocated >= seats_committed")
		if hard {
			overage = overage.Where("seats_allocated < seats_committed + overage_limit")
		}
		result := overage.Updates(map[string]interface{}{
			"overage_used":    gorm.Expr("overage_used + 1"),
			"seats_allocated": gorm.Expr("seats_allocated + 1"),
			"updated_at":      time.Now().UTC(),
		})
		if result.Error != nil {
			r.logger.Errorw("failed to increment seat pool", "id", poolID, "error", result.Error)
			return nil, fmt.Errorf("failed to increment seat pool: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return &seat.IncrementResult{OK: true, IsOverage: true}, nil
		}

		var model models.SeatPoolModel
		if err := r.db.WithContext(ctx).First(&model, poolID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, seat.ErrPoolNotFound
			}
			return nil, fmt.Errorf("failed to check seat pool state: %w", err)
		}
		if !model.Active {
			return nil, seat.ErrPoolInactive
		}
		if hard && model.SeatsAllocated >= model.SeatsCommitted+model.OverageLimit {
			// The pool exists and is active: the cap condition rejected us.
			return &seat.IncrementResult{OK: false}, nil
		}
		// Both claims missed on a pool that now shows room, so a concurrent
		// release or claim moved the counters between our statements. Retry.
	}
	return nil, fmt.Errorf("seat pool %d claim did not settle after %d attempts", poolID, incrementAttempts)
}

// Decrement releases one seat, flooring the counters at zero.
func (r *SeatPoolRepositoryImpl) Decrement(ctx context.Context, poolID uint, wasOverage bool) error {
	updates := map[string]interface{}{
		"seats_allocated": gorm.Expr("CASE WHEN seats_allocated > 0 THEN seats_allocated - 1 ELSE 0 END"),
		"updated_at":      time.Now().UTC(),
	}
	if wasOverage {
		updates["overage_used"] = gorm.Expr("CASE WHEN overage_used > 0 THEN overage_used - 1 ELSE 0 END")
	}

	result := r.db.WithContext(ctx).
		Model(&models.SeatPoolModel{}).
		Where("id = ?", poolID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to decrement seat pool", "id", poolID, "error", result.Error)
		return fmt.Errorf("failed to decrement seat pool: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return seat.ErrPoolNotFound
	}
	return nil
}

// ListByOrganization returns all pools for an organization ordered by tier
func (r *SeatPoolRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint) ([]*seat.SeatPool, error) {
	var poolModels []models.SeatPoolModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("tier ASC, window_end DESC").
		Find(&poolModels).Error; err != nil {
		r.logger.Errorw("failed to list seat pools", "organization_id", organizationID, "error", err)
		return nil, fmt.Errorf("failed to list seat pools: %w", err)
	}

	pools := make([]*seat.SeatPool, len(poolModels))
	for i := range poolModels {
		pool, err := poolFromModel(&poolModels[i])
		if err != nil {
			return nil, err
		}
		pools[i] = pool
	}
	return pools, nil
}

// ListExpiredActive returns active pools whose validity window closed as of asOf
func (r *SeatPoolRepositoryImpl) ListExpiredActive(ctx context.Context, asOf time.Time) ([]*seat.SeatPool, error) {
	var poolModels []models.SeatPoolModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND window_end <= ?", true, asOf).
		Find(&poolModels).Error; err != nil {
		r.logger.Errorw("failed to list expired seat pools", "error", err)
		return nil, fmt.Errorf("failed to list expired seat pools: %w", err)
	}

	pools := make([]*seat.SeatPool, len(poolModels))
	for i := range poolModels {
		pool, err := poolFromModel(&poolModels[i])
		if err != nil {
			return nil, err
		}
		pools[i] = pool
	}
	return pools, nil
}

// Deactivate marks a pool inactive
func (r *SeatPoolRepositoryImpl) Deactivate(ctx context.Context, poolID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.SeatPoolModel{}).
		Where("id = ?", poolID).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to deactivate seat pool", "id", poolID, "error", result.Error)
		return fmt.Errorf("failed to deactivate seat pool: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return seat.ErrPoolNotFound
	}

	r.logger.Infow("seat pool deactivated", "id", poolID)
	return nil
}

func poolFromModel(model *models.SeatPoolModel) (*seat.SeatPool, error) {
	pool, err := seat.ReconstructSeatPool(seat.SeatPoolReconstructParams{
		ID:             model.ID,
		SID:            model.SID,
		OrganizationID: model.OrganizationID,
		Tier:           seat.Tier(model.Tier),
		ProductSKU:     model.ProductSKU,
		SeatsCommitted: model.SeatsCommitted,
		SeatsAllocated: model.SeatsAllocated,
		OverageUsed:    model.OverageUsed,
		OverageLimit:   model.OverageLimit,
		Enforcement:    seat.EnforcementMode(model.EnforcementMode),
		WindowStart:    model.WindowStart,
		WindowEnd:      model.WindowEnd,
		Active:         model.Active,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct seat pool %d: %w", model.ID, err)
	}
	return pool, nil
}
