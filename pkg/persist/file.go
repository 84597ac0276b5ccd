package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores each field as dir/<project>/<field>.json.
type FileBackend struct {
	mu  sync.RWMutex
	dir string
}

// NewFileBackend creates a file backend rooted at dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create field dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key Key) string {
	return filepath.Join(b.dir, key.ProjectID, key.FieldID+".json")
}

func (b *FileBackend) Fetch(ctx context.Context, key Key) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, wrapBackend("read", key, err)
	}
	return data, nil
}

func (b *FileBackend) Put(ctx context.Context, key Key, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return wrapBackend("create dir for", key, err)
	}
	// write-then-rename so readers never see a half-written document
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return wrapBackend("write", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return wrapBackend("write", key, err)
	}
	return nil
}

// Path returns the root directory.
func (b *FileBackend) Path() string { return b.dir }

func (b *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
