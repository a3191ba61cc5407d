package usecases

import (
	"context"
	"fmt"

	"seatwise/internal/application/enforcement/dto"
	"seatwise/internal/domain/seat"
	"seatwise/internal/shared/logger"
)

type GetSeatUsageSummaryQuery struct {
	OrganizationID uint
}

// GetSeatUsageSummaryUseCase reports per-pool utilization for an organization,
// including overage consumption.
type GetSeatUsageSummaryUseCase struct {
	pools  seat.PoolRepository
	logger logger.Interface
}

func NewGetSeatUsageSummaryUseCase(pools seat.PoolRepository, logger logger.Interface) *GetSeatUsageSummaryUseCase {
	return &GetSeatUsageSummaryUseCase{pools: pools, logger: logger}
}

func (uc *GetSeatUsageSummaryUseCase) Execute(ctx context.Context, query GetSeatUsageSummaryQuery) (*dto.SeatUsageSummaryDTO, error) {
	pools, err := uc.pools.ListByOrganization(ctx, query.OrganizationID)
	if err != nil {
		uc.logger.Errorw("failed to list seat pools", "error", err, "organization_id", query.OrganizationID)
		return nil, fmt.Errorf("failed to list seat pools: %w", err)
	}

	summary := &dto.SeatUsageSummaryDTO{
		OrganizationID: query.OrganizationID,
		Pools:          make([]dto.PoolUsageDTO, 0, len(pools)),
	}
	for _, pool := range pools {
		summary.Pools = append(summary.Pools, dto.PoolToUsageDTO(pool))
		summary.TotalSeatsCommitted += pool.SeatsCommitted()
		summary.TotalSeatsAllocated += pool.SeatsAllocated()
		summary.TotalOverageUsed += pool.OverageUsed()
	}
	return summary, nil
}
