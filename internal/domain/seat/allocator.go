package seat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatwise/internal/shared/logger"
)

// AssignmentResult is the outcome of a grant. Business failures are carried
// in Failure; only store failures surface as Go errors.
type AssignmentResult struct {
	Succeeded     bool
	Assignment    *SeatAssignment
	AlreadyActive bool
	IsOverage     bool
	Warning       string
	Failure       FailureKind
}

// TransferResult is the outcome of a transfer. When the new grant fails after
// the old seat was released, OldSeatReleased is true and the learner is left
// without a seat; the old assignment is deliberately not restored so the
// capacity problem stays visible to administrators.
type TransferResult struct {
	Succeeded       bool
	Assignment      *SeatAssignment
	Unchanged       bool
	OldSeatReleased bool
	Failure         FailureKind
}

// Allocator grants, revokes and transfers seat assignments against pools,
// enforcing capacity and overage policy. All counter mutations go through the
// PoolRepository's atomic conditional primitives.
type Allocator struct {
	pools       PoolRepository
	assignments AssignmentRepository
	logger      logger.Interface
	now         func() time.Time
}

// NewAllocator creates a seat allocator.
func NewAllocator(pools PoolRepository, assignments AssignmentRepository, log logger.Interface) *Allocator {
	return &Allocator{
		pools:       pools,
		assignments: assignments,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the allocator's clock. Test use only.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Grant assigns a seat to the learner from the active pool covering
// (organization, tier). Granting an identical already-held seat is an
// idempotent success; holding a seat in a different tier is a caller error
// surfaced as FailureConflictingAssignment.
func (a *Allocator) Grant(ctx context.Context, learnerID, organizationID uint, tier Tier, schoolID *uint) (*AssignmentResult, error) {
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}

	existing, err := a.assignments.FindActiveByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active assignment: %w", err)
	}
	if existing != nil {
		if existing.Tier() == tier {
			return &AssignmentResult{
				Succeeded:     true,
				Assignment:    existing,
				AlreadyActive: true,
				IsOverage:     existing.IsOverage(),
			}, nil
		}
		a.logger.Warnw("grant attempted while a different-tier seat is active",
			"learner_id", learnerID,
			"held_tier", existing.Tier(),
			"requested_tier", tier,
		)
		return &AssignmentResult{Failure: FailureConflictingAssignment}, nil
	}

	return a.grantFresh(ctx, learnerID, organizationID, tier, schoolID, nil)
}

// grantFresh selects a pool, atomically claims a seat and records the
// assignment. transferredFrom links a transfer-in to the released assignment.
func (a *Allocator) grantFresh(ctx context.Context, learnerID, organizationID uint, tier Tier, schoolID *uint, transferredFrom *uint) (*AssignmentResult, error) {
	pool, err := a.pools.FindActivePool(ctx, organizationID, tier, a.now())
	if err != nil {
		return nil, fmt.Errorf("failed to find active pool: %w", err)
	}
	if pool == nil {
		a.logger.Infow("no active seat pool for learner",
			"learner_id", learnerID,
			"organization_id", organizationID,
			"tier", tier,
		)
		return &AssignmentResult{Failure: FailureNoEntitlement}, nil
	}

	inc, err := a.pools.ConditionalIncrement(ctx, pool.ID(), pool.Enforcement().IsHard())
	if err != nil {
		return nil, fmt.Errorf("failed to increment pool %d: %w", pool.ID(), err)
	}
	if !inc.OK {
		a.logger.Warnw("seat grant rejected at hard cap",
			"learner_id", learnerID,
			"pool_sid", pool.SID(),
			"committed", pool.SeatsCommitted(),
			"overage_limit", pool.OverageLimit(),
		)
		return &AssignmentResult{Failure: FailureSeatLimitExceeded}, nil
	}

	assignment, err := NewSeatAssignment(learnerID, pool.ID(), schoolID, tier, inc.IsOverage, transferredFrom)
	if err != nil {
		// Release the claimed seat before surfacing the programming error.
		a.releaseSeat(ctx, pool.ID(), inc.IsOverage)
		return nil, fmt.Errorf("failed to build assignment: %w", err)
	}

	if err := a.assignments.Create(ctx, assignment); err != nil {
		a.releaseSeat(ctx, pool.ID(), inc.IsOverage)
		if errors.Is(err, ErrDuplicateActiveAssignment) {
			// Lost a per-learner race: another request granted concurrently.
			// The store's uniqueness constraint serialized us; report the
			// surviving assignment.
			current, lookupErr := a.assignments.FindActiveByLearner(ctx, learnerID)
			if lookupErr == nil && current != nil {
				if current.Tier() == tier {
					return &AssignmentResult{
						Succeeded:     true,
						Assignment:    current,
						AlreadyActive: true,
						IsOverage:     current.IsOverage(),
					}, nil
				}
				return &AssignmentResult{Failure: FailureConflictingAssignment}, nil
			}
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	result := &AssignmentResult{
		Succeeded:  true,
		Assignment: assignment,
		IsOverage:  inc.IsOverage,
	}
	if inc.IsOverage {
		result.Warning = fmt.Sprintf(
			"seat granted in overage for pool %s: committed %d seats are exhausted",
			pool.SID(), pool.SeatsCommitted(),
		)
		a.logger.Warnw("seat granted in overage",
			"learner_id", learnerID,
			"pool_sid", pool.SID(),
			"committed", pool.SeatsCommitted(),
		)
	}
	a.logger.Infow("seat granted",
		"learner_id", learnerID,
		"assignment_sid", assignment.SID(),
		"pool_sid", pool.SID(),
		"tier", tier,
		"is_overage", inc.IsOverage,
	)
	return result, nil
}

// Transfer releases the learner's current seat and grants a fresh one in the
// new tier's pool. Seat accounting across the two pools nets to zero on
// success. When the fresh grant fails the old seat stays released.
func (a *Allocator) Transfer(ctx context.Context, assignmentID uint, newTier Tier, newSchoolID *uint) (*TransferResult, error) {
	if !newTier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", newTier)
	}

	assignment, err := a.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}
	if !assignment.IsActive() {
		return nil, fmt.Errorf("%w: assignment %s is %s", ErrAssignmentNotActive, assignment.SID(), assignment.Status())
	}
	if assignment.Tier() == newTier {
		return &TransferResult{Succeeded: true, Assignment: assignment, Unchanged: true}, nil
	}

	oldPool, err := a.pools.GetByID(ctx, assignment.PoolID())
	if err != nil {
		return nil, fmt.Errorf("failed to load pool %d: %w", assignment.PoolID(), err)
	}

	if err := a.pools.Decrement(ctx, oldPool.ID(), assignment.IsOverage()); err != nil {
		return nil, fmt.Errorf("failed to release seat from pool %d: %w", oldPool.ID(), err)
	}
	reason := fmt.Sprintf("grade band change %s -> %s", assignment.Tier(), newTier)
	if err := a.assignments.End(ctx, assignment.ID(), AssignmentStatusTransferred, reason); err != nil {
		return nil, fmt.Errorf("failed to end assignment %d: %w", assignment.ID(), err)
	}

	fromID := assignment.ID()
	grantRes, err := a.grantFresh(ctx, assignment.LearnerID(), oldPool.OrganizationID(), newTier, newSchoolID, &fromID)
	if err != nil {
		return nil, err
	}
	if grantRes.Failure.IsFailure() {
		// The old seat is already gone. Surfacing rather than silently
		// re-granting keeps the capacity gap visible.
		a.logger.Warnw("transfer failed after releasing old seat; learner left without a seat",
			"learner_id", assignment.LearnerID(),
			"old_assignment_sid", assignment.SID(),
			"new_tier", newTier,
			"failure", grantRes.Failure,
		)
		return &TransferResult{
			OldSeatReleased: true,
			Failure:         grantRes.Failure,
		}, nil
	}

	a.logger.Infow("seat transferred",
		"learner_id", assignment.LearnerID(),
		"old_assignment_sid", assignment.SID(),
		"new_assignment_sid", grantRes.Assignment.SID(),
		"new_tier", newTier,
	)
	return &TransferResult{Succeeded: true, Assignment: grantRes.Assignment}, nil
}

// Revoke releases the learner's active seat. A learner without a seat is a
// no-op success.
func (a *Allocator) Revoke(ctx context.Context, learnerID uint, reason string) error {
	assignment, err := a.assignments.FindActiveByLearner(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("failed to look up active assignment: %w", err)
	}
	if assignment == nil {
		a.logger.Debugw("revoke for learner without an active seat", "learner_id", learnerID)
		return nil
	}

	if err := a.pools.Decrement(ctx, assignment.PoolID(), assignment.IsOverage()); err != nil {
		return fmt.Errorf("failed to release seat from pool %d: %w", assignment.PoolID(), err)
	}
	if err := a.assignments.End(ctx, assignment.ID(), AssignmentStatusRevoked, reason); err != nil {
		return fmt.Errorf("failed to end assignment %d: %w", assignment.ID(), err)
	}

	a.logger.Infow("seat revoked",
		"learner_id", learnerID,
		"assignment_sid", assignment.SID(),
		"reason", reason,
	)
	return nil
}

// ExpireStale closes out every pool whose validity window has ended: its
// active assignments become expired and the pool is deactivated. Returns the
// number of assignments affected. Idempotent.
func (a *Allocator) ExpireStale(ctx context.Context, asOf time.Time) (int, error) {
	pools, err := a.pools.ListExpiredActive(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired pools: %w", err)
	}

	expired := 0
	for _, pool := range pools {
		assignments, err := a.assignments.ListActiveByPool(ctx, pool.ID())
		if err != nil {
			return expired, fmt.Errorf("failed to list assignments for pool %d: %w", pool.ID(), err)
		}
		for _, assignment := range assignments {
			if err := a.assignments.End(ctx, assignment.ID(), AssignmentStatusExpired, "pool validity window closed"); err != nil {
				return expired, fmt.Errorf("failed to expire assignment %d: %w", assignment.ID(), err)
			}
			expired++
		}
		if err := a.pools.Deactivate(ctx, pool.ID()); err != nil {
			return expired, fmt.Errorf("failed to deactivate pool %d: %w", pool.ID(), err)
		}
		a.logger.Infow("pool expired",
			"pool_sid", pool.SID(),
			"assignments_expired", len(assignments),
		)
	}
	return expired, nil
}

// releaseSeat undoes a claimed increment after a failed assignment write.
func (a *Allocator) releaseSeat(ctx context.Context, poolID uint, wasOverage bool) {
	if err := a.pools.Decrement(ctx, poolID, wasOverage); err != nil {
		a.logger.Errorw("failed to release seat after grant failure; pool counter may leak",
			"pool_id", poolID,
			"error", err,
		)
	}
}
