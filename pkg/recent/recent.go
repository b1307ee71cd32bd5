// Package recent keeps the most recently tracked flight ids in a Redis list.
package recent

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the list key when none is given.
const DefaultKey = "recent_searches"

// Store is a bounded, de-duplicated, most-recent-first list of flight ids.
type Store struct {
	client *redis.Client
	key    string
	limit  int
}

// NewStore returns a Store keeping at most limit ids under key.
func NewStore(client *redis.Client, key string, limit int) *Store {
	if key == "" {
		key = DefaultKey
	}
	if limit <= 0 {
		limit = 20
	}
	return &Store{client: client, key: key, limit: limit}
}

// Add moves flightID to the front of the list, dropping its older entry and
// anything past the limit.
func (s *Store) Add(ctx context.Context, flightID string) error {
	if flightID == "" {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, s.key, 0, flightID)
	pipe.LPush(ctx, s.key, flightID)
	pipe.LTrim(ctx, s.key, 0, int64(s.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recent: add %s: %w", flightID, err)
	}
	return nil
}

// List returns up to limit ids, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]string, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("recent: list: %w", err)
	}
	return ids, nil
}

// Clear removes the list.
func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
