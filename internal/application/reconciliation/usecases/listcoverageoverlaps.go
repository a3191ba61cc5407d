package usecases

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/application/reconciliation/dto"
	"seatwise/internal/domain/reconciliation"
	"seatwise/internal/shared/logger"
)

type ListCoverageOverlapsQuery struct {
	OrganizationID uint
	Since          time.Time
}

// ListCoverageOverlapsUseCase returns the overlaps detected for an
// organization, for billing review and credit export.
type ListCoverageOverlapsUseCase struct {
	overlaps reconciliation.OverlapRepository
	logger   logger.Interface
}

func NewListCoverageOverlapsUseCase(overlaps reconciliation.OverlapRepository, logger logger.Interface) *ListCoverageOverlapsUseCase {
	return &ListCoverageOverlapsUseCase{overlaps: overlaps, logger: logger}
}

func (uc *ListCoverageOverlapsUseCase) Execute(ctx context.Context, query ListCoverageOverlapsQuery) ([]dto.CoverageOverlapDTO, error) {
	if query.OrganizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}

	overlaps, err := uc.overlaps.ListByOrganization(ctx, query.OrganizationID, query.Since)
	if err != nil {
		uc.logger.Errorw("failed to list coverage overlaps",
			"error", err,
			"organization_id", query.OrganizationID,
		)
		return nil, fmt.Errorf("failed to list coverage overlaps: %w", err)
	}

	result := make([]dto.CoverageOverlapDTO, 0, len(overlaps))
	for _, overlap := range overlaps {
		result = append(result, dto.OverlapToDTO(overlap))
	}
	return result, nil
}
