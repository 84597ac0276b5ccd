package config

import (
	"context"
	"io"
	"net/http"

	"github.com/matzehuels/trackmap/pkg/cache"
	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/persist"
)

// OpenCache opens the field cache selected by storage.cache.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Storage.Cache {
	case "", "none":
		return cache.NewNullCache(), nil
	case "file":
		return cache.NewFileCache(c.Storage.CacheDir)
	case "redis":
		if c.Storage.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "redis cache requires storage.redis_url")
		}
		return cache.NewRedisCache(ctx, c.Storage.RedisURL)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown cache %q", c.Storage.Cache)
	}
}

// OpenRemote returns the field service the CLI should talk to: the HTTP
// API when remote.url is set, the local storage backend otherwise. The
// returned closer releases the backend.
func (c Config) OpenRemote(ctx context.Context) (persist.Remote, io.Closer, error) {
	if c.Remote.URL != "" {
		r, err := persist.NewHTTPRemote(c.Remote.URL,
			persist.WithToken(c.Remote.Token),
			persist.WithHTTPClient(&http.Client{Timeout: c.Remote.Timeout}),
		)
		if err != nil {
			return nil, nil, err
		}
		return r, closers(nil), nil
	}
	b, err := persist.OpenBackend(ctx, c.Storage.Config)
	if err != nil {
		return nil, nil, err
	}
	return persist.NewLocalRemote(b), b, nil
}

// OpenAdapter wires the remote and the cache into a persistence adapter.
// Closing the returned closer releases both.
func (c Config) OpenAdapter(ctx context.Context, opts ...persist.AdapterOption) (*persist.Adapter, io.Closer, error) {
	remote, rc, err := c.OpenRemote(ctx)
	if err != nil {
		return nil, nil, err
	}
	fc, err := c.OpenCache(ctx)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}
	scoped := cache.Scoped(cache.Instrument(fc, "field"), c.cacheScope())
	opts = append([]persist.AdapterOption{persist.WithCache(scoped, c.Storage.CacheTTL)}, opts...)
	return persist.NewAdapter(remote, opts...), closers{rc, fc}, nil
}

// cacheScope keeps entries of different remotes apart in a shared cache.
func (c Config) cacheScope() string {
	if c.Remote.URL != "" {
		return "remote:" + cache.Hash([]byte(c.Remote.URL))[:12] + ":"
	}
	return "local:" + c.Storage.Backend + ":"
}

type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
