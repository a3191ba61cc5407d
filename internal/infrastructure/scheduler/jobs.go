package scheduler

import (
	"context"

	enforcementUC "seatwise/internal/application/enforcement/usecases"
	reconciliationUC "seatwise/internal/application/reconciliation/usecases"
)

// SeatExpiryJob adapts the stale assignment sweep to the BatchJob interface.
type SeatExpiryJob struct {
	usecase *enforcementUC.ExpireStaleAssignmentsUseCase
}

// NewSeatExpiryJob creates a seat expiry job.
func NewSeatExpiryJob(usecase *enforcementUC.ExpireStaleAssignmentsUseCase) *SeatExpiryJob {
	return &SeatExpiryJob{usecase: usecase}
}

// Execute runs one sweep and returns the number of assignments expired.
func (j *SeatExpiryJob) Execute(ctx context.Context) (int, error) {
	result, err := j.usecase.Execute(ctx, enforcementUC.ExpireStaleAssignmentsCommand{})
	if err != nil {
		return 0, err
	}
	return result.AssignmentsExpired, nil
}

// ReconciliationJob adapts the coverage overlap scan to the BatchJob interface.
type ReconciliationJob struct {
	usecase *reconciliationUC.ScanCoverageOverlapsUseCase
}

// NewReconciliationJob creates a reconciliation scan job.
func NewReconciliationJob(usecase *reconciliationUC.ScanCoverageOverlapsUseCase) *ReconciliationJob {
	return &ReconciliationJob{usecase: usecase}
}

// Execute runs one scan and returns the number of overlaps detected.
func (j *ReconciliationJob) Execute(ctx context.Context) (int, error) {
	result, err := j.usecase.Execute(ctx, reconciliationUC.ScanCoverageOverlapsCommand{})
	if err != nil {
		return 0, err
	}
	return len(result.Overlaps), nil
}
