// Package cache is the injected key/blob store used for flight records and
// other upstream responses. Backends evict by capacity and TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cache interface defines caching operations
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// Error definitions
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Cache policies and TTLs
const (
	ShortTTL  = 5 * time.Minute
	MediumTTL = 1 * time.Hour
	LongTTL   = 24 * time.Hour
)

// Cache key generators

func FlightDetailKey(flightID string) string {
	return fmt.Sprintf("flight_detail:%s", strings.ToUpper(strings.TrimSpace(flightID)))
}

func AirportKey(code string) string {
	return fmt.Sprintf("airport:%s", strings.ToUpper(strings.TrimSpace(code)))
}
