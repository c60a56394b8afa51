package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

type countingStore struct {
	calls int32
	since time.Time
	err   error
}

func (s *countingStore) CountOverview(_ context.Context, since time.Time) (*models.PortalOverview, error) {
	n := atomic.AddInt32(&s.calls, 1)
	s.since = since
	if s.err != nil {
		return nil, s.err
	}
	return &models.PortalOverview{TotalUsers: int64(n)}, nil
}

func TestOverviewCache_HitsWithinTTL(t *testing.T) {
	store := &countingStore{}
	cache := NewOverviewCache(store, time.Minute)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&store.calls))
	assert.Same(t, first, second)
}

func TestOverviewCache_InvalidateForcesRefresh(t *testing.T) {
	store := &countingStore{}
	cache := NewOverviewCache(store, time.Minute)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	overview, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.TotalUsers)
}

func TestOverviewCache_ZeroTTLDisablesCaching(t *testing.T) {
	store := &countingStore{}
	cache := NewOverviewCache(store, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(&store.calls))
}

func TestOverviewCache_ChatsWindowIsSevenDays(t *testing.T) {
	store := &countingStore{}
	cache := NewOverviewCache(store, time.Minute)
	fixed := time.Date(2025, 7, 8, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return fixed }

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), store.since)
}

func TestOverviewCache_ErrorsAreNotCached(t *testing.T) {
	store := &countingStore{err: errors.New("db down")}
	cache := NewOverviewCache(store, time.Minute)

	_, err := cache.Get(context.Background())
	require.Error(t, err)

	store.err = nil
	overview, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, overview)
}

type ctxAwareStore struct{}

func (ctxAwareStore) CountOverview(ctx context.Context, _ time.Time) (*models.PortalOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh has no deadline")
	}
	return &models.PortalOverview{TotalTrainers: 3}, nil
}

func TestOverviewCache_RefreshSurvivesCanceledCaller(t *testing.T) {
	cache := NewOverviewCache(ctxAwareStore{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	overview, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.TotalTrainers)
}
