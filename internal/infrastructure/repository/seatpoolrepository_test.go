package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"seatwise/internal/domain/seat"
	"seatwise/internal/infrastructure/persistence/models"
	"seatwise/internal/infrastructure/repository"
	"seatwise/internal/shared/logger"
)

func newPoolRepo(t *testing.T) seat.PoolRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.SeatPoolModel{}))
	return repository.NewSeatPoolRepository(db, logger.NewLogger())
}

func createPool(t *testing.T, repo seat.PoolRepository, committed, overageLimit int, mode seat.EnforcementMode) *seat.SeatPool {
	t.Helper()
	now := time.Now().UTC()
	pool, err := seat.NewSeatPool(7, seat.Tier35, "SKU-35-ANNUAL", committed, overageLimit, mode, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), pool))
	return pool
}

func TestConditionalIncrementClassifiesOverageFromClaim(t *testing.T) {
	repo := newPoolRepo(t)
	pool := createPool(t, repo, 1, 1, seat.EnforcementHard)
	ctx := context.Background()

	first, err := repo.ConditionalIncrement(ctx, pool.ID(), true)
	require.NoError(t, err)
	assert.True(t, first.OK)
	assert.False(t, first.IsOverage)

	second, err := repo.ConditionalIncrement(ctx, pool.ID(), true)
	require.NoError(t, err)
	assert.True(t, second.OK)
	assert.True(t, second.IsOverage)

	third, err := repo.ConditionalIncrement(ctx, pool.ID(), true)
	require.NoError(t, err)
	assert.False(t, third.OK)

	reloaded, err := repo.GetByID(ctx, pool.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.SeatsAllocated())
	assert.Equal(t, 1, reloaded.OverageUsed())
}

func TestConditionalIncrementSoftModePassesCap(t *testing.T) {
	repo := newPoolRepo(t)
	pool := createPool(t, repo, 1, 0, seat.EnforcementSoft)
	ctx := context.Background()

	first, err := repo.ConditionalIncrement(ctx, pool.ID(), false)
	require.NoError(t, err)
	assert.True(t, first.OK)
	assert.False(t, first.IsOverage)

	for i := 0; i < 3; i++ {
		result, err := repo.ConditionalIncrement(ctx, pool.ID(), false)
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.True(t, result.IsOverage)
	}

	reloaded, err := repo.GetByID(ctx, pool.ID())
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.SeatsAllocated())
	assert.Equal(t, 3, reloaded.OverageUsed())
}

func TestConditionalIncrementDistinguishesMissingAndInactive(t *testing.T) {
	repo := newPoolRepo(t)
	pool := createPool(t, repo, 1, 0, seat.EnforcementHard)
	ctx := context.Background()

	_, err := repo.ConditionalIncrement(ctx, pool.ID()+100, true)
	assert.ErrorIs(t, err, seat.ErrPoolNotFound)

	require.NoError(t, repo.Deactivate(ctx, pool.ID()))
	_, err = repo.ConditionalIncrement(ctx, pool.ID(), true)
	assert.ErrorIs(t, err, seat.ErrPoolInactive)
}

func TestDecrementFloorsAtZero(t *testing.T) {
	repo := newPoolRepo(t)
	pool := createPool(t, repo, 1, 1, seat.EnforcementHard)
	ctx := context.Background()

	_, err := repo.ConditionalIncrement(ctx, pool.ID(), true)
	require.NoError(t, err)

	require.NoError(t, repo.Decrement(ctx, pool.ID(), false))
	require.NoError(t, repo.Decrement(ctx, pool.ID(), true))

	reloaded, err := repo.GetByID(ctx, pool.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.SeatsAllocated())
	assert.Equal(t, 0, reloaded.OverageUsed())
}
