package seat

import (
	"fmt"
	"time"

	"seatwise/internal/shared/id"
)

// SeatAssignment represents one seat grant for a learner against a pool.
// A learner holds at most one active assignment at any time; the store
// enforces this with a uniqueness constraint, not application locking.
type SeatAssignment struct {
	id                uint
	sid               string // Stripe-style ID: seat_xxx
	learnerID         uint
	poolID            uint
	schoolID          *uint
	tier              Tier // tier at assignment time
	isOverage         bool // captured at grant time, never changes retroactively
	status            AssignmentStatus
	transferredFromID *uint
	createdAt         time.Time
	endedAt           *time.Time
	endedReason       *string
}

// NewSeatAssignment creates a new active assignment. transferredFrom links a
// transfer-in to the assignment it replaced.
func NewSeatAssignment(learnerID, poolID uint, schoolID *uint, tier Tier, isOverage bool, transferredFrom *uint) (*SeatAssignment, error) {
	if learnerID == 0 {
		return nil, fmt.Errorf("learner ID is required")
	}
	if poolID == 0 {
		return nil, fmt.Errorf("pool ID is required")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}

	return &SeatAssignment{
		sid:               id.MustGenerateWithPrefix(id.PrefixSeatAssignment, id.DefaultLength),
		learnerID:         learnerID,
		poolID:            poolID,
		schoolID:          schoolID,
		tier:              tier,
		isOverage:         isOverage,
		status:            AssignmentStatusActive,
		transferredFromID: transferredFrom,
		createdAt:         time.Now().UTC(),
	}, nil
}

// SeatAssignmentReconstructParams carries the persisted state of an assignment.
type SeatAssignmentReconstructParams struct {
	ID                uint
	SID               string
	LearnerID         uint
	PoolID            uint
	SchoolID          *uint
	Tier              Tier
	IsOverage         bool
	Status            AssignmentStatus
	TransferredFromID *uint
	CreatedAt         time.Time
	EndedAt           *time.Time
	EndedReason       *string
}

// ReconstructSeatAssignment rebuilds an assignment from persistence.
func ReconstructSeatAssignment(p SeatAssignmentReconstructParams) (*SeatAssignment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if !p.Tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", p.Tier)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid assignment status: %s", p.Status)
	}
	return &SeatAssignment{
		id:                p.ID,
		sid:               p.SID,
		learnerID:         p.LearnerID,
		poolID:            p.PoolID,
		schoolID:          p.SchoolID,
		tier:              p.Tier,
		isOverage:         p.IsOverage,
		status:            p.Status,
		transferredFromID: p.TransferredFromID,
		createdAt:         p.CreatedAt,
		endedAt:           p.EndedAt,
		endedReason:       p.EndedReason,
	}, nil
}

func (a *SeatAssignment) ID() uint                 { return a.id }
func (a *SeatAssignment) SID() string              { return a.sid }
func (a *SeatAssignment) LearnerID() uint          { return a.learnerID }
func (a *SeatAssignment) PoolID() uint             { return a.poolID }
func (a *SeatAssignment) SchoolID() *uint          { return a.schoolID }
func (a *SeatAssignment) Tier() Tier               { return a.tier }
func (a *SeatAssignment) IsOverage() bool          { return a.isOverage }
func (a *SeatAssignment) Status() AssignmentStatus { return a.status }
func (a *SeatAssignment) TransferredFromID() *uint { return a.transferredFromID }
func (a *SeatAssignment) CreatedAt() time.Time     { return a.createdAt }
func (a *SeatAssignment) EndedAt() *time.Time      { return a.endedAt }
func (a *SeatAssignment) EndedReason() *string     { return a.endedReason }

// SetID sets the assignment ID (persistence layer use only).
func (a *SeatAssignment) SetID(assignmentID uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if assignmentID == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = assignmentID
	return nil
}

// IsActive reports whether the assignment currently occupies a seat.
func (a *SeatAssignment) IsActive() bool {
	return a.status.IsActive()
}

func (a *SeatAssignment) end(status AssignmentStatus, reason string) error {
	if a.status == status {
		return nil
	}
	if !a.status.IsActive() {
		return fmt.Errorf("%w: cannot transition %s assignment to %s", ErrAssignmentNotActive, a.status, status)
	}
	now := time.Now().UTC()
	a.status = status
	a.endedAt = &now
	a.endedReason = &reason
	return nil
}

// MarkTransferred ends the assignment because the learner moved to a
// different grade band.
func (a *SeatAssignment) MarkTransferred(reason string) error {
	return a.end(AssignmentStatusTransferred, reason)
}

// MarkRevoked ends the assignment on explicit deactivation.
func (a *SeatAssignment) MarkRevoked(reason string) error {
	return a.end(AssignmentStatusRevoked, reason)
}

// MarkExpired ends the assignment because its pool's validity window closed.
func (a *SeatAssignment) MarkExpired(reason string) error {
	return a.end(AssignmentStatusExpired, reason)
}
