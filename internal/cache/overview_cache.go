package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/repository"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	overviewCacheKey  = "portal_overview"
	overviewCacheName = "portal_overview"
	chatsWindow       = 7 * 24 * time.Hour
	refreshTimeout    = 10 * time.Second
)

// OverviewCache keeps the admin dashboard counters for a short TTL.
// Concurrent misses share a single refresh. A zero TTL disables caching.
type OverviewCache struct {
	cache *gocache.Cache
	store repository.OverviewStore
	ttl   time.Duration
	group singleflight.Group
	now   func() time.Time
}

// NewOverviewCache creates a new overview cache
func NewOverviewCache(store repository.OverviewStore, ttl time.Duration) *OverviewCache {
	return &OverviewCache{
		cache: gocache.New(ttl, 2*ttl+time.Minute),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns cached counters or refreshes them from the store
func (oc *OverviewCache) Get(ctx context.Context) (*models.PortalOverview, error) {
	if oc.ttl > 0 {
		if data, found := oc.cache.Get(overviewCacheKey); found {
			if overview, ok := data.(*models.PortalOverview); ok {
				metrics.CacheHits.WithLabelValues(overviewCacheName).Inc()
				return overview, nil
			}
			logger.Error("Invalid overview cache data type")
			oc.cache.Delete(overviewCacheKey)
		}
	}
	metrics.CacheMisses.WithLabelValues(overviewCacheName).Inc()

	// shared by every waiter, so one caller going away must not cancel it
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()

	result, err, _ := oc.group.Do(overviewCacheKey, func() (interface{}, error) {
		return oc.refresh(refreshCtx)
	})
	if err != nil {
		return nil, err
	}

	overview, ok := result.(*models.PortalOverview)
	if !ok {
		return nil, fmt.Errorf("invalid overview result type")
	}
	return overview, nil
}

// Invalidate drops the cached counters
func (oc *OverviewCache) Invalidate() {
	oc.cache.Delete(overviewCacheKey)
}

func (oc *OverviewCache) refresh(ctx context.Context) (*models.PortalOverview, error) {
	overview, err := oc.store.CountOverview(ctx, oc.now().Add(-chatsWindow))
	if err != nil {
		logger.Error("Failed to refresh overview cache", zap.Error(err))
		return nil, err
	}

	if oc.ttl > 0 {
		oc.cache.Set(overviewCacheKey, overview, oc.ttl)
	}

	logger.Debug("Overview cache refreshed",
		zap.Int64("total_users", overview.TotalUsers),
		zap.Int64("total_trainers", overview.TotalTrainers))

	return overview, nil
}
