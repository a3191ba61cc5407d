package dto

import "seatwise/internal/domain/seat"

// AssignmentToDTO converts a domain assignment to its API shape.
func AssignmentToDTO(a *seat.SeatAssignment) *SeatAssignmentDTO {
	if a == nil {
		return nil
	}
	return &SeatAssignmentDTO{
		SID:       a.SID(),
		LearnerID: a.LearnerID(),
		Tier:      a.Tier().String(),
		IsOverage: a.IsOverage(),
		Status:    a.Status().String(),
		CreatedAt: a.CreatedAt(),
		EndedAt:   a.EndedAt(),
	}
}

// PoolToUsageDTO converts a pool to its usage line.
func PoolToUsageDTO(p *seat.SeatPool) PoolUsageDTO {
	return PoolUsageDTO{
		SID:                p.SID(),
		Tier:               p.Tier().String(),
		ProductSKU:         p.ProductSKU(),
		SeatsCommitted:     p.SeatsCommitted(),
		SeatsAllocated:     p.SeatsAllocated(),
		OverageUsed:        p.OverageUsed(),
		OverageLimit:       p.OverageLimit(),
		EnforcementMode:    p.Enforcement().String(),
		UtilizationPercent: p.Utilization(),
		WindowStart:        p.WindowStart(),
		WindowEnd:          p.WindowEnd(),
		Active:             p.IsActive(),
	}
}

// GuidanceFor maps a business failure to the admin-actionable next step.
func GuidanceFor(kind seat.FailureKind) string {
	switch kind {
	case seat.FailureNoEntitlement:
		return "No active seat pool covers this learner's grade band. Check the organization's contract windows or purchase seats for this band."
	case seat.FailureSeatLimitExceeded:
		return "The pool's committed seats and overage allowance are exhausted. Purchase additional seats or raise the overage limit."
	case seat.FailureConflictingAssignment:
		return "The learner already holds an active seat in a different grade band. Use a grade band change instead of a new activation."
	default:
		return ""
	}
}
