package seat

import (
	"context"
	"time"
)

// IncrementResult reports the outcome of a conditional seat increment.
type IncrementResult struct {
	// OK is false when a hard-enforced pool was already at its cap; no
	// counter changed in that case.
	OK bool
	// IsOverage is true when the granted seat landed beyond the committed
	// quantity.
	IsOverage bool
}

// PoolRepository defines persistence operations for seat pools.
//
// The counter mutations (ConditionalIncrement, Decrement) must be issued as
// single atomic store-level operations: two concurrent increments against a
// hard pool with one remaining seat must yield exactly one success.
// Read-then-write in application code is not an acceptable implementation.
type PoolRepository interface {
	// Create persists a new pool.
	Create(ctx context.Context, pool *SeatPool) error

	// GetByID retrieves a pool by ID.
	GetByID(ctx context.Context, poolID uint) (*SeatPool, error)

	// FindActivePool returns the active pool for (organization, tier) whose
	// validity window contains asOf. When several qualify the one with the
	// latest window end wins. Returns (nil, nil) when none exists.
	FindActivePool(ctx context.Context, organizationID uint, tier Tier, asOf time.Time) (*SeatPool, error)

	// ConditionalIncrement atomically allocates one seat. Under hard
	// enforcement the increment only applies while allocated is below
	// committed + overage limit; under soft enforcement it always applies.
	// Overage bookkeeping (overage_used) is part of the same atomic update.
	ConditionalIncrement(ctx context.Context, poolID uint, hard bool) (*IncrementResult, error)

	// Decrement atomically releases one seat, reversing the overage
	// bookkeeping when the departing assignment was flagged overage.
	Decrement(ctx context.Context, poolID uint, wasOverage bool) error

	// ListByOrganization returns all pools for an organization.
	ListByOrganization(ctx context.Context, organizationID uint) ([]*SeatPool, error)

	// ListExpiredActive returns active pools whose validity window has closed
	// as of asOf.
	ListExpiredActive(ctx context.Context, asOf time.Time) ([]*SeatPool, error)

	// Deactivate marks a pool inactive.
	Deactivate(ctx context.Context, poolID uint) error
}

// AssignmentRepository defines persistence operations for seat assignments.
type AssignmentRepository interface {
	// Create persists a new active assignment. The store enforces at most
	// one active assignment per learner; a violation surfaces as
	// ErrDuplicateActiveAssignment.
	Create(ctx context.Context, assignment *SeatAssignment) error

	// GetByID retrieves an assignment by ID. Returns ErrAssignmentNotFound
	// when missing.
	GetByID(ctx context.Context, assignmentID uint) (*SeatAssignment, error)

	// FindActiveByLearner returns the learner's active assignment, or
	// (nil, nil) when the learner holds no seat.
	FindActiveByLearner(ctx context.Context, learnerID uint) (*SeatAssignment, error)

	// End transitions an assignment out of the active state with a reason.
	End(ctx context.Context, assignmentID uint, status AssignmentStatus, reason string) error

	// ListActiveByPool returns all active assignments in a pool.
	ListActiveByPool(ctx context.Context, poolID uint) ([]*SeatAssignment, error)
}
