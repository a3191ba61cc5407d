package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatwise/internal/application/enforcement/usecases"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/domain/seat"
	"seatwise/internal/domain/seat/testutil"
	"seatwise/internal/shared/logger"
)

type fakeDirectory struct {
	learners map[uint]*coverage.Learner
}

func (d *fakeDirectory) GetLearner(_ context.Context, learnerID uint) (*coverage.Learner, error) {
	learner, ok := d.learners[learnerID]
	if !ok {
		return nil, coverage.ErrLearnerNotFound
	}
	return learner, nil
}

func (d *fakeDirectory) ListWithIndividualCoverage(_ context.Context, _ time.Time) ([]uint, error) {
	return nil, nil
}

type fakeCache struct {
	profiles    map[uint]*coverage.CoverageProfile
	invalidated []uint
	setCount    int
}

func (c *fakeCache) Get(_ context.Context, learnerID uint) (*coverage.CoverageProfile, error) {
	return c.profiles[learnerID], nil
}

func (c *fakeCache) Set(_ context.Context, profile *coverage.CoverageProfile) error {
	if c.profiles == nil {
		c.profiles = make(map[uint]*coverage.CoverageProfile)
	}
	c.profiles[profile.LearnerID()] = profile
	c.setCount++
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, learnerID uint) error {
	c.invalidated = append(c.invalidated, learnerID)
	delete(c.profiles, learnerID)
	return nil
}

type fakeGrants struct {
	byOrg map[uint][]*coverage.FeatureGrant
}

func (g *fakeGrants) Create(_ context.Context, _ *coverage.FeatureGrant) error { return nil }
func (g *fakeGrants) Deactivate(_ context.Context, _ uint) error               { return nil }

func (g *fakeGrants) ListActiveByOrganization(_ context.Context, organizationID uint, asOf time.Time) ([]*coverage.FeatureGrant, error) {
	var active []*coverage.FeatureGrant
	for _, grant := range g.byOrg[organizationID] {
		if grant.AppliesAt(asOf) {
			active = append(active, grant)
		}
	}
	return active, nil
}

type fakeProvider struct {
	byLearner map[uint]*coverage.IndividualCoverage
}

func (p *fakeProvider) GetIndividualCoverage(_ context.Context, learnerID uint, _ time.Time) (*coverage.IndividualCoverage, error) {
	return p.byLearner[learnerID], nil
}

type fixture struct {
	pools       *testutil.PoolStore
	assignments *testutil.AssignmentStore
	allocator   *seat.Allocator
	directory   *fakeDirectory
	cache       *fakeCache
	grants      *fakeGrants
	provider    *fakeProvider
	log         logger.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		pools:       testutil.NewPoolStore(),
		assignments: testutil.NewAssignmentStore(),
		directory:   &fakeDirectory{learners: make(map[uint]*coverage.Learner)},
		cache:       &fakeCache{profiles: make(map[uint]*coverage.CoverageProfile)},
		grants:      &fakeGrants{byOrg: make(map[uint][]*coverage.FeatureGrant)},
		provider:    &fakeProvider{byLearner: make(map[uint]*coverage.IndividualCoverage)},
		log:         logger.NewLogger(),
	}
	f.allocator = seat.NewAllocator(f.pools, f.assignments, f.log)
	return f
}

func (f *fixture) addLearner(t *testing.T, learnerID, orgID uint, tier string) {
	t.Helper()
	f.directory.learners[learnerID] = &coverage.Learner{ID: learnerID, OrganizationID: orgID, Tier: tier}
}

func (f *fixture) addPool(t *testing.T, orgID uint, tier seat.Tier, committed, overageLimit int, mode seat.EnforcementMode) *seat.SeatPool {
	t.Helper()
	now := time.Now().UTC()
	pool, err := seat.NewSeatPool(orgID, tier, "SKU-CORE", committed, overageLimit, mode, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), pool))
	return pool
}

func TestActivateLearnerGrantsSeat(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addPool(t, 7, seat.Tier35, 10, 0, seat.EnforcementHard)
	uc := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)

	result, err := uc.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	assert.True(t, result.Activated)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, "3-5", result.Assignment.Tier)
	assert.False(t, result.Assignment.IsOverage)
	assert.Contains(t, f.cache.invalidated, uint(42))
}

func TestActivateLearnerNoEntitlementGuidance(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	uc := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)

	result, err := uc.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	assert.False(t, result.Activated)
	assert.Equal(t, "no_entitlement", result.FailureKind)
	assert.NotEmpty(t, result.Guidance)
	assert.Empty(t, f.cache.invalidated)
}

func TestActivateLearnerUnknownLearner(t *testing.T) {
	f := newFixture(t)
	uc := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)

	_, err := uc.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 99})
	assert.Error(t, err)
}

func TestChangeGradeBandTransfersSeat(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addPool(t, 7, seat.Tier35, 10, 0, seat.EnforcementHard)
	f.addPool(t, 7, seat.Tier68, 10, 0, seat.EnforcementHard)

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	_, err := activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	uc := usecases.NewChangeGradeBandUseCase(f.allocator, f.assignments, f.directory, f.cache, f.log)
	result, err := uc.Execute(context.Background(), usecases.ChangeGradeBandCommand{LearnerID: 42, NewTier: "6-8"})
	require.NoError(t, err)

	assert.True(t, result.Activated)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, "6-8", result.Assignment.Tier)
}

func TestChangeGradeBandGrantsWhenNoSeatHeld(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addPool(t, 7, seat.Tier68, 10, 0, seat.EnforcementHard)

	uc := usecases.NewChangeGradeBandUseCase(f.allocator, f.assignments, f.directory, f.cache, f.log)
	result, err := uc.Execute(context.Background(), usecases.ChangeGradeBandCommand{LearnerID: 42, NewTier: "6-8"})
	require.NoError(t, err)

	assert.True(t, result.Activated)
	assert.False(t, result.AlreadyActive)
}

func TestChangeGradeBandSameBandIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addPool(t, 7, seat.Tier35, 10, 0, seat.EnforcementHard)

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	_, err := activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	uc := usecases.NewChangeGradeBandUseCase(f.allocator, f.assignments, f.directory, f.cache, f.log)
	result, err := uc.Execute(context.Background(), usecases.ChangeGradeBandCommand{LearnerID: 42, NewTier: "3-5"})
	require.NoError(t, err)

	assert.True(t, result.Activated)
	assert.True(t, result.AlreadyActive)
}

func TestChangeGradeBandFailureReportsSeatReleased(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addPool(t, 7, seat.Tier35, 10, 0, seat.EnforcementHard)
	// No 6-8 pool exists: the transfer target has no entitlement.

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	_, err := activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	uc := usecases.NewChangeGradeBandUseCase(f.allocator, f.assignments, f.directory, f.cache, f.log)
	result, err := uc.Execute(context.Background(), usecases.ChangeGradeBandCommand{LearnerID: 42, NewTier: "6-8"})
	require.NoError(t, err)

	assert.False(t, result.Activated)
	assert.Equal(t, "no_entitlement", result.FailureKind)
	assert.True(t, result.SeatReleased)

	current, err := f.assignments.FindActiveByLearner(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestDeactivateLearnerReleasesSeat(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	pool := f.addPool(t, 7, seat.Tier35, 10, 0, seat.EnforcementHard)

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	_, err := activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	uc := usecases.NewDeactivateLearnerUseCase(f.allocator, f.cache, f.log)
	require.NoError(t, uc.Execute(context.Background(), usecases.DeactivateLearnerCommand{LearnerID: 42, Reason: "left district"}))

	reloaded, err := f.pools.GetByID(context.Background(), pool.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.SeatsAllocated())
	assert.Contains(t, f.cache.invalidated, uint(42))
}

func TestDeactivateLearnerWithoutSeatIsNoOp(t *testing.T) {
	f := newFixture(t)
	uc := usecases.NewDeactivateLearnerUseCase(f.allocator, f.cache, f.log)

	assert.NoError(t, uc.Execute(context.Background(), usecases.DeactivateLearnerCommand{LearnerID: 42}))
}

func TestCheckFeatureAccessCoveredByOrganization(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	now := time.Now().UTC()
	grant, err := coverage.NewFeatureGrant(7, "MODULE_ELA", nil, now.AddDate(0, -1, 0), now.AddDate(0, 6, 0))
	require.NoError(t, err)
	f.grants.byOrg[7] = []*coverage.FeatureGrant{grant}

	resolver := coverage.NewResolver(coverage.NewFeatureSet("MODULE_ELA", "ADDON_SEL"))
	uc := usecases.NewCheckFeatureAccessUseCase(f.directory, f.grants, f.provider, resolver, f.cache, f.log)

	access, err := uc.Execute(context.Background(), usecases.CheckFeatureAccessQuery{LearnerID: 42, FeatureKey: "MODULE_ELA"})
	require.NoError(t, err)

	assert.True(t, access.Allowed)
	assert.Equal(t, "organization", access.Payer)
	assert.Equal(t, 1, f.cache.setCount)
}

func TestCheckFeatureAccessUncoveredIsUpsell(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	resolver := coverage.NewResolver(coverage.NewFeatureSet("MODULE_ELA", "ADDON_SEL"))
	uc := usecases.NewCheckFeatureAccessUseCase(f.directory, f.grants, f.provider, resolver, f.cache, f.log)

	access, err := uc.Execute(context.Background(), usecases.CheckFeatureAccessQuery{LearnerID: 42, FeatureKey: "ADDON_SEL"})
	require.NoError(t, err)

	assert.False(t, access.Allowed)
	assert.Contains(t, access.Reason, "available for purchase")
}

func TestCheckFeatureAccessUsesCachedProfile(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	resolver := coverage.NewResolver(coverage.NewFeatureSet("MODULE_ELA"))
	uc := usecases.NewCheckFeatureAccessUseCase(f.directory, f.grants, f.provider, resolver, f.cache, f.log)

	_, err := uc.Execute(context.Background(), usecases.CheckFeatureAccessQuery{LearnerID: 42, FeatureKey: "MODULE_ELA"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), usecases.CheckFeatureAccessQuery{LearnerID: 42, FeatureKey: "MODULE_ELA"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.cache.setCount)
}

func TestGetSeatUsageSummaryTotals(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	f.addLearner(t, 43, 7, "6-8")
	f.addPool(t, 7, seat.Tier35, 1, 2, seat.EnforcementSoft)
	f.addPool(t, 7, seat.Tier68, 5, 0, seat.EnforcementHard)

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	for _, learnerID := range []uint{42, 43} {
		_, err := activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: learnerID})
		require.NoError(t, err)
	}

	uc := usecases.NewGetSeatUsageSummaryUseCase(f.pools, f.log)
	summary, err := uc.Execute(context.Background(), usecases.GetSeatUsageSummaryQuery{OrganizationID: 7})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalSeatsCommitted)
	assert.Equal(t, 2, summary.TotalSeatsAllocated)
	assert.Equal(t, 0, summary.TotalOverageUsed)
	require.Len(t, summary.Pools, 2)
	assert.Equal(t, "3-5", summary.Pools[0].Tier)
}

func TestExpireStaleAssignmentsSweep(t *testing.T) {
	f := newFixture(t)
	f.addLearner(t, 42, 7, "3-5")
	now := time.Now().UTC()
	pool, err := seat.NewSeatPool(7, seat.Tier35, "SKU-CORE", 10, 0, seat.EnforcementHard, now.AddDate(0, -2, 0), now.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.NoError(t, f.pools.Create(context.Background(), pool))

	activate := usecases.NewActivateLearnerUseCase(f.allocator, f.directory, f.cache, f.log)
	_, err = activate.Execute(context.Background(), usecases.ActivateLearnerCommand{LearnerID: 42})
	require.NoError(t, err)

	uc := usecases.NewExpireStaleAssignmentsUseCase(f.allocator, f.log)
	result, err := uc.Execute(context.Background(), usecases.ExpireStaleAssignmentsCommand{AsOf: now.AddDate(0, 3, 0)})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssignmentsExpired)
}
