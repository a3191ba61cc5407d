package reconciliation

import "seatwise/internal/domain/coverage"

// LearnerError records a per-learner failure during a scan. Scans never abort
// on one learner's bad data; the error is collected and the scan moves on.
type LearnerError struct {
	LearnerID uint
	Err       error
}

// ReconciliationResult summarizes one scan run.
type ReconciliationResult struct {
	LearnersProcessed    int
	Overlaps             []*CoverageOverlap
	TotalPotentialCredit coverage.Money
	Errors               []LearnerError
}

// OverlapCount returns the number of overlaps detected.
func (r *ReconciliationResult) OverlapCount() int {
	return len(r.Overlaps)
}
