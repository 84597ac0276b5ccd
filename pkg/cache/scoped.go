package cache

import (
	"context"
	"time"
)

// ScopedCache wraps a Cache with a key prefix for multi-tenant isolation.
// The field server uses one scope per project so that invalidating one
// project never touches another.
//
// Example usage:
//
//	projectCache := cache.Scoped(shared, "project:42:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped creates a cache view that prepends prefix to every key.
// A nil inner cache is replaced by a [NullCache].
func Scoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed value.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a prefixed value.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes a prefixed value.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the underlying cache.
func (c *ScopedCache) Close() error { return c.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
