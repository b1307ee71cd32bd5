package flights

import (
	"context"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
)

// CachedSource serves records from a cache before asking the wrapped Source.
type CachedSource struct {
	source Source
	cache  *cache.CacheManager
	ttl    time.Duration
}

// NewCachedSource wraps source with cm. Records are kept for ttl.
func NewCachedSource(source Source, cm *cache.CacheManager, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = cache.ShortTTL
	}
	return &CachedSource{source: source, cache: cm, ttl: ttl}
}

func (s *CachedSource) Detail(ctx context.Context, flightID string) (*Detail, error) {
	var detail Detail
	err := s.cache.GetOrSet(ctx, cache.FlightDetailKey(NormalizeID(flightID)), s.ttl, &detail, func() (interface{}, error) {
		d, err := s.source.Detail(ctx, flightID)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Fresh bypasses the cache for one read and stores the result, so periodic
// refreshes see upstream changes before the TTL runs out.
func (s *CachedSource) Fresh(ctx context.Context, flightID string) (*Detail, error) {
	detail, err := s.source.Detail(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetObject(ctx, cache.FlightDetailKey(NormalizeID(flightID)), detail, s.ttl); err != nil {
		logger.Warn("Flight detail cache write failed", "flight", flightID, "error", err)
	}
	return detail, nil
}
