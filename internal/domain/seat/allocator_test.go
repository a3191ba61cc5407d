package seat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatwise/internal/domain/seat"
	"seatwise/internal/domain/seat/testutil"
	"seatwise/internal/shared/logger"
)

// --- helpers ---

type allocatorFixture struct {
	pools       *testutil.PoolStore
	assignments *testutil.AssignmentStore
	allocator   *seat.Allocator
}

func newFixture(t *testing.T) *allocatorFixture {
	t.Helper()
	pools := testutil.NewPoolStore()
	assignments := testutil.NewAssignmentStore()
	return &allocatorFixture{
		pools:       pools,
		assignments: assignments,
		allocator:   seat.NewAllocator(pools, assignments, logger.NewLogger()),
	}
}

func (f *allocatorFixture) addPool(t *testing.T, orgID uint, tier seat.Tier, committed, overageLimit int, mode seat.EnforcementMode) *seat.SeatPool {
	t.Helper()
	start := time.Now().UTC().Add(-time.Hour)
	end := start.AddDate(1, 0, 0)
	pool, err := seat.NewSeatPool(orgID, tier, "sku-core", committed, overageLimit, mode, start, end)
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), pool))
	return pool
}

func (f *allocatorFixture) addExpiredPool(t *testing.T, orgID uint, tier seat.Tier) *seat.SeatPool {
	t.Helper()
	start := time.Now().UTC().AddDate(-1, 0, 0)
	end := time.Now().UTC().Add(-time.Hour)
	pool, err := seat.NewSeatPool(orgID, tier, "sku-core", 10, 0, seat.EnforcementHard, start, end)
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), pool))
	return pool
}

func (f *allocatorFixture) poolState(t *testing.T, poolID uint) *seat.SeatPool {
	t.Helper()
	pool, err := f.pools.GetByID(context.Background(), poolID)
	require.NoError(t, err)
	return pool
}

// --- Grant ---

func TestGrant_Succeeds(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.False(t, res.AlreadyActive)
	assert.False(t, res.IsOverage)
	assert.Empty(t, res.Warning)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, seat.AssignmentStatusActive, res.Assignment.Status())
	assert.Equal(t, 1, f.poolState(t, pool.ID()).SeatsAllocated())
}

func TestGrant_IdempotentSameTier(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	first, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	second, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	assert.True(t, second.Succeeded)
	assert.True(t, second.AlreadyActive)
	assert.Equal(t, first.Assignment.SID(), second.Assignment.SID())
	// One assignment, one counter increment.
	assert.Equal(t, 1, f.poolState(t, pool.ID()).SeatsAllocated())
}

func TestGrant_ConflictingAssignment(t *testing.T) {
	f := newFixture(t)
	f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)
	f.addPool(t, 1, seat.Tier68, 5, 0, seat.EnforcementHard)

	_, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier68, nil)

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, seat.FailureConflictingAssignment, res.Failure)
}

func TestGrant_NoEntitlement(t *testing.T) {
	f := newFixture(t)

	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, seat.FailureNoEntitlement, res.Failure)
}

func TestGrant_ExpiredPoolDoesNotQualify(t *testing.T) {
	f := newFixture(t)
	f.addExpiredPool(t, 1, seat.Tier35)

	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)

	require.NoError(t, err)
	assert.Equal(t, seat.FailureNoEntitlement, res.Failure)
}

func TestGrant_PrefersLatestEndDate(t *testing.T) {
	f := newFixture(t)
	start := time.Now().UTC().Add(-time.Hour)

	early, err := seat.NewSeatPool(1, seat.Tier35, "sku-core", 5, 0, seat.EnforcementHard, start, start.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), early))
	late, err := seat.NewSeatPool(1, seat.Tier35, "sku-core", 5, 0, seat.EnforcementHard, start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), late))

	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)

	require.NoError(t, err)
	require.True(t, res.Succeeded)
	assert.Equal(t, late.ID(), res.Assignment.PoolID())
	assert.Equal(t, 0, f.poolState(t, early.ID()).SeatsAllocated())
	assert.Equal(t, 1, f.poolState(t, late.ID()).SeatsAllocated())
}

func TestGrant_OverageWithinLimit(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 1, 1, seat.EnforcementHard)

	_, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	res, err := f.allocator.Grant(context.Background(), 101, 1, seat.Tier35, nil)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.True(t, res.IsOverage)
	assert.NotEmpty(t, res.Warning)
	assert.True(t, res.Assignment.IsOverage())

	state := f.poolState(t, pool.ID())
	assert.Equal(t, 2, state.SeatsAllocated())
	assert.Equal(t, 1, state.OverageUsed())
}

func TestGrant_HardCapScenario(t *testing.T) {
	// pool(committed=100, overageLimit=10, HARD, allocated=100): the 101st
	// grant succeeds as overage, the 111th fails.
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier912, 100, 10, seat.EnforcementHard)

	var learner uint
	for learner = 1; learner <= 100; learner++ {
		res, err := f.allocator.Grant(context.Background(), learner, 1, seat.Tier912, nil)
		require.NoError(t, err)
		require.True(t, res.Succeeded)
		require.False(t, res.IsOverage)
	}

	res, err := f.allocator.Grant(context.Background(), 101, 1, seat.Tier912, nil)
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.True(t, res.IsOverage)
	assert.Equal(t, 1, f.poolState(t, pool.ID()).OverageUsed())

	for learner = 102; learner <= 110; learner++ {
		res, err := f.allocator.Grant(context.Background(), learner, 1, seat.Tier912, nil)
		require.NoError(t, err)
		require.True(t, res.Succeeded)
	}

	res, err = f.allocator.Grant(context.Background(), 111, 1, seat.Tier912, nil)
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, seat.FailureSeatLimitExceeded, res.Failure)

	state := f.poolState(t, pool.ID())
	assert.Equal(t, 110, state.SeatsAllocated())
	assert.LessOrEqual(t, state.SeatsAllocated(), state.HardCap())
}

func TestGrant_SoftModeExceedsOverageLimit(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 1, 0, seat.EnforcementSoft)

	for learner := uint(1); learner <= 3; learner++ {
		res, err := f.allocator.Grant(context.Background(), learner, 1, seat.Tier35, nil)
		require.NoError(t, err)
		require.True(t, res.Succeeded)
	}

	state := f.poolState(t, pool.ID())
	assert.Equal(t, 3, state.SeatsAllocated())
	assert.Equal(t, 2, state.OverageUsed())
}

func TestGrant_ConcurrentRaceOneSeat(t *testing.T) {
	// Two concurrent grants against a hard pool with one remaining seat:
	// exactly one success, one seat_limit_exceeded.
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 1, 0, seat.EnforcementHard)

	var wg sync.WaitGroup
	results := make([]*seat.AssignmentResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.allocator.Grant(context.Background(), uint(100+i), 1, seat.Tier35, nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	successes, rejections := 0, 0
	for _, res := range results {
		if res.Succeeded {
			successes++
		} else {
			require.Equal(t, seat.FailureSeatLimitExceeded, res.Failure)
			rejections++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, 1, f.poolState(t, pool.ID()).SeatsAllocated())
}

func TestGrant_StoreFailureReleasesNothing(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)
	f.pools.FailNextIncrement = true

	_, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)

	require.Error(t, err)
	assert.Equal(t, 0, f.poolState(t, pool.ID()).SeatsAllocated())
}

// --- Transfer ---

func TestTransfer_Succeeds(t *testing.T) {
	f := newFixture(t)
	oldPool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)
	newPool := f.addPool(t, 1, seat.Tier68, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	res, err := f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier68, nil)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, seat.Tier68, res.Assignment.Tier())
	require.NotNil(t, res.Assignment.TransferredFromID())
	assert.Equal(t, granted.Assignment.ID(), *res.Assignment.TransferredFromID())

	// Conservation: one pool loses exactly one seat, the other gains one.
	assert.Equal(t, 0, f.poolState(t, oldPool.ID()).SeatsAllocated())
	assert.Equal(t, 1, f.poolState(t, newPool.ID()).SeatsAllocated())

	old, err := f.assignments.GetByID(context.Background(), granted.Assignment.ID())
	require.NoError(t, err)
	assert.Equal(t, seat.AssignmentStatusTransferred, old.Status())
}

func TestTransfer_FromFullPoolIntoHeadroom(t *testing.T) {
	f := newFixture(t)
	oldPool := f.addPool(t, 1, seat.Tier35, 1, 0, seat.EnforcementHard)
	newPool := f.addPool(t, 1, seat.Tier68, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	require.Equal(t, 1, f.poolState(t, oldPool.ID()).SeatsAllocated())

	res, err := f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier68, nil)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 0, f.poolState(t, oldPool.ID()).SeatsAllocated())
	assert.Equal(t, 1, f.poolState(t, newPool.ID()).SeatsAllocated())
}

func TestTransfer_SameTierNoOp(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	res, err := f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier35, nil)

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.True(t, res.Unchanged)
	assert.Equal(t, 1, f.poolState(t, pool.ID()).SeatsAllocated())
}

func TestTransfer_FailureLeavesLearnerSeatless(t *testing.T) {
	// No pool exists for the new tier: the old seat is already released and
	// is not restored; the failure is surfaced with OldSeatReleased.
	f := newFixture(t)
	oldPool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	res, err := f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier68, nil)

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, res.OldSeatReleased)
	assert.Equal(t, seat.FailureNoEntitlement, res.Failure)
	assert.Equal(t, 0, f.poolState(t, oldPool.ID()).SeatsAllocated())

	active, err := f.assignments.FindActiveByLearner(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestTransfer_HardLimitOnTargetLeavesLearnerSeatless(t *testing.T) {
	f := newFixture(t)
	f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)
	full := f.addPool(t, 1, seat.Tier68, 1, 0, seat.EnforcementHard)

	blocker, err := f.allocator.Grant(context.Background(), 200, 1, seat.Tier68, nil)
	require.NoError(t, err)
	require.True(t, blocker.Succeeded)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	res, err := f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier68, nil)

	require.NoError(t, err)
	assert.True(t, res.OldSeatReleased)
	assert.Equal(t, seat.FailureSeatLimitExceeded, res.Failure)
	assert.Equal(t, 1, f.poolState(t, full.ID()).SeatsAllocated())
}

func TestTransfer_InactiveAssignmentRejected(t *testing.T) {
	f := newFixture(t)
	f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	require.NoError(t, f.allocator.Revoke(context.Background(), 100, "left district"))

	_, err = f.allocator.Transfer(context.Background(), granted.Assignment.ID(), seat.Tier68, nil)

	assert.ErrorIs(t, err, seat.ErrAssignmentNotActive)
}

// --- Revoke ---

func TestRevoke_ReleasesSeat(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	granted, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	require.NoError(t, f.allocator.Revoke(context.Background(), 100, "left district"))

	assert.Equal(t, 0, f.poolState(t, pool.ID()).SeatsAllocated())
	ended, err := f.assignments.GetByID(context.Background(), granted.Assignment.ID())
	require.NoError(t, err)
	assert.Equal(t, seat.AssignmentStatusRevoked, ended.Status())
	require.NotNil(t, ended.EndedReason())
	assert.Equal(t, "left district", *ended.EndedReason())
}

func TestRevoke_ReversesOverageBookkeeping(t *testing.T) {
	f := newFixture(t)
	pool := f.addPool(t, 1, seat.Tier35, 1, 1, seat.EnforcementHard)

	_, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)
	over, err := f.allocator.Grant(context.Background(), 101, 1, seat.Tier35, nil)
	require.NoError(t, err)
	require.True(t, over.IsOverage)

	require.NoError(t, f.allocator.Revoke(context.Background(), 101, "left district"))

	state := f.poolState(t, pool.ID())
	assert.Equal(t, 1, state.SeatsAllocated())
	assert.Equal(t, 0, state.OverageUsed())
}

func TestRevoke_NoActiveSeatIsNoOp(t *testing.T) {
	f := newFixture(t)

	err := f.allocator.Revoke(context.Background(), 100, "left district")

	assert.NoError(t, err)
}

// --- ExpireStale ---

func TestExpireStale_ExpiresAssignmentsAndDeactivatesPool(t *testing.T) {
	f := newFixture(t)
	active := f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	res, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	// Close the window by listing as-of the far future.
	count, err := f.allocator.ExpireStale(context.Background(), time.Now().UTC().AddDate(2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expired, err := f.assignments.GetByID(context.Background(), res.Assignment.ID())
	require.NoError(t, err)
	assert.Equal(t, seat.AssignmentStatusExpired, expired.Status())
	assert.False(t, f.poolState(t, active.ID()).IsActive())
}

func TestExpireStale_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)
	_, err := f.allocator.Grant(context.Background(), 100, 1, seat.Tier35, nil)
	require.NoError(t, err)

	asOf := time.Now().UTC().AddDate(2, 0, 0)
	first, err := f.allocator.ExpireStale(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := f.allocator.ExpireStale(context.Background(), asOf)
	require.NoError(t, err)
	assert.Zero(t, second)
}

func TestExpireStale_NothingToExpire(t *testing.T) {
	f := newFixture(t)
	f.addPool(t, 1, seat.Tier35, 5, 0, seat.EnforcementHard)

	count, err := f.allocator.ExpireStale(context.Background(), time.Now().UTC())

	require.NoError(t, err)
	assert.Zero(t, count)
}
