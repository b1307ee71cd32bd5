package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
)

// CacheManager provides high-level caching operations
type CacheManager struct {
	cache Cache
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cache Cache) *CacheManager {
	return &CacheManager{cache: cache}
}

// GetObject retrieves and decodes a msgpack value into dest.
func (cm *CacheManager) GetObject(ctx context.Context, key string, dest interface{}) error {
	data, err := cm.cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("msgpack unmarshal error: %w", err)
	}
	return nil
}

// SetObject encodes value with msgpack and stores it with ttl.
func (cm *CacheManager) SetObject(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("msgpack marshal error: %w", err)
	}
	return cm.cache.Set(ctx, key, data, ttl)
}

// GetOrSet decodes the cached value at key into dest. On a miss it calls
// fn, caches the result and decodes that into dest. A failing cache only
// costs the caller a call to fn.
func (cm *CacheManager) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	err := cm.GetObject(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("Cache read failed", "key", key, "error", err)
	}

	value, err := fn()
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("msgpack marshal error: %w", err)
	}
	if err := cm.cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("msgpack unmarshal error: %w", err)
	}
	return nil
}

// Delete removes a key from cache
func (cm *CacheManager) Delete(ctx context.Context, key string) error {
	return cm.cache.Delete(ctx, key)
}

// Exists checks if a key exists in cache
func (cm *CacheManager) Exists(ctx context.Context, key string) (bool, error) {
	return cm.cache.Exists(ctx, key)
}

// Clear removes all cached data
func (cm *CacheManager) Clear(ctx context.Context) error {
	return cm.cache.Clear(ctx)
}
