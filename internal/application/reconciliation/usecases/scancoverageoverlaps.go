// Package usecases implements the reconciliation operations.
package usecases

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/application/reconciliation/dto"
	"seatwise/internal/domain/reconciliation"
	"seatwise/internal/shared/logger"
)

type ScanCoverageOverlapsCommand struct {
	AsOf time.Time
}

// ScanCoverageOverlapsUseCase runs one reconciliation sweep. Triggered by the
// scheduler on an interval and by administrators on demand.
type ScanCoverageOverlapsUseCase struct {
	scanner *reconciliation.Scanner
	logger  logger.Interface
}

func NewScanCoverageOverlapsUseCase(scanner *reconciliation.Scanner, logger logger.Interface) *ScanCoverageOverlapsUseCase {
	return &ScanCoverageOverlapsUseCase{scanner: scanner, logger: logger}
}

func (uc *ScanCoverageOverlapsUseCase) Execute(ctx context.Context, cmd ScanCoverageOverlapsCommand) (*dto.ScanResultDTO, error) {
	asOf := cmd.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	result, err := uc.scanner.Scan(ctx, asOf)
	if err != nil {
		uc.logger.Errorw("reconciliation scan failed", "error", err)
		return nil, fmt.Errorf("reconciliation scan failed: %w", err)
	}

	return dto.ResultToDTO(result), nil
}
