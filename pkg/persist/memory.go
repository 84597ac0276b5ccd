package persist

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps documents in process memory. It is safe for
// concurrent use.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[Key][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[Key][]byte)}
}

func (b *MemoryBackend) Fetch(ctx context.Context, key Key) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[key]
	if !ok {
		return nil, notFound(key)
	}
	return slices.Clone(data), nil
}

func (b *MemoryBackend) Put(ctx context.Context, key Key, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = slices.Clone(data)
	return nil
}

// Len returns the number of stored fields.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *MemoryBackend) Close() error { return nil }

var _ Backend = (*MemoryBackend)(nil)
