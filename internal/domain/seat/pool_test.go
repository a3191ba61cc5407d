package seat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPool(t *testing.T) *SeatPool {
	t.Helper()
	start := time.Now().UTC()
	pool, err := NewSeatPool(1, Tier35, "sku-core", 100, 10, EnforcementHard, start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	return pool
}

func TestNewSeatPool_ValidInput(t *testing.T) {
	pool := validPool(t)

	assert.NotEmpty(t, pool.SID())
	assert.True(t, pool.IsActive())
	assert.Equal(t, 0, pool.SeatsAllocated())
	assert.Equal(t, 0, pool.OverageUsed())
	assert.Equal(t, 110, pool.HardCap())
}

func TestNewSeatPool_InvalidTier(t *testing.T) {
	start := time.Now().UTC()
	pool, err := NewSeatPool(1, Tier("13-15"), "sku-core", 10, 0, EnforcementHard, start, start.AddDate(1, 0, 0))

	assert.Error(t, err)
	assert.Nil(t, pool)
}

func TestNewSeatPool_InvertedWindow(t *testing.T) {
	start := time.Now().UTC()
	pool, err := NewSeatPool(1, Tier35, "sku-core", 10, 0, EnforcementHard, start, start)

	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.Nil(t, pool)
}

func TestNewSeatPool_NegativeCommitted(t *testing.T) {
	start := time.Now().UTC()
	pool, err := NewSeatPool(1, Tier35, "sku-core", -1, 0, EnforcementHard, start, start.AddDate(1, 0, 0))

	assert.Error(t, err)
	assert.Nil(t, pool)
}

func TestSeatPool_WindowContains(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)
	pool, err := NewSeatPool(1, Tier35, "sku-core", 10, 0, EnforcementHard, start, end)
	require.NoError(t, err)

	assert.True(t, pool.WindowContains(start))
	assert.True(t, pool.WindowContains(end.Add(-time.Second)))
	assert.False(t, pool.WindowContains(end), "window end is exclusive")
	assert.False(t, pool.WindowContains(start.Add(-time.Second)))
	assert.True(t, pool.WindowClosed(end))
}

func TestSeatPool_Utilization(t *testing.T) {
	pool, err := ReconstructSeatPool(SeatPoolReconstructParams{
		ID: 1, SID: "pool_x", OrganizationID: 1, Tier: Tier35, ProductSKU: "sku-core",
		SeatsCommitted: 100, SeatsAllocated: 50, OverageLimit: 10,
		Enforcement: EnforcementHard,
		WindowStart: time.Now().UTC(), WindowEnd: time.Now().UTC().AddDate(1, 0, 0),
		Active: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pool.Utilization(), 1e-9)
}

func TestSeatPool_UtilizationZeroCommitted(t *testing.T) {
	pool, err := ReconstructSeatPool(SeatPoolReconstructParams{
		ID: 1, SID: "pool_x", OrganizationID: 1, Tier: Tier35, ProductSKU: "sku-core",
		SeatsCommitted: 0, SeatsAllocated: 0,
		Enforcement: EnforcementSoft,
		WindowStart: time.Now().UTC(), WindowEnd: time.Now().UTC().AddDate(1, 0, 0),
		Active: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Zero(t, pool.Utilization())
}

func TestSeatPool_DeactivateIdempotent(t *testing.T) {
	pool := validPool(t)

	pool.Deactivate()
	assert.False(t, pool.IsActive())
	pool.Deactivate()
	assert.False(t, pool.IsActive())
}
