// Package cache provides byte-level caching for fetched field documents.
//
// Implementations:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries on disk for CLI usage
//   - [RedisCache]: shared cache for multi-instance servers
//
// [Scoped] prefixes keys for multi-tenant isolation and [Instrument] reports
// hits and misses to the registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional TTL.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A TTL of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FieldKey returns the cache key for a stored field document.
func FieldKey(projectID, fieldID string) string {
	return hashKey("field", projectID, fieldID)
}
