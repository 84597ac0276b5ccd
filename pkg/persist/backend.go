package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/trackmap/pkg/errors"
)

// Backend stores canonical field documents as opaque JSON.
//
// Fetch returns an error with code [errors.ErrCodeFieldNotFound] when the key
// has never been written.
type Backend interface {
	Fetch(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, data []byte) error
	Close() error
}

// Backend names accepted by [OpenBackend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultDataDir returns ~/.local/share/trackmap, honouring XDG_DATA_HOME.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "trackmap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "trackmap")
	}
	return filepath.Join(home, ".local", "share", "trackmap")
}

// OpenBackend opens the backend named by cfg.Backend. An empty name selects
// the file backend.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		dir := cfg.Path
		if dir == "" {
			dir = filepath.Join(DefaultDataDir(), "fields")
		}
		return NewFileBackend(dir)
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(DefaultDataDir(), "fields.db")
		}
		return OpenSQLite(ctx, path)
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "redis backend requires redis_url")
		}
		return NewRedisBackend(ctx, cfg.RedisURL)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo backend requires mongo_uri")
		}
		return NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown backend %q", cfg.Backend)
	}
}

func notFound(key Key) error {
	return errors.New(errors.ErrCodeFieldNotFound, "field %s not found", key)
}

func wrapBackend(op string, key Key, err error) error {
	return fmt.Errorf("%s %s: %w", op, key, err)
}
