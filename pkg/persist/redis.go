package persist

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each field under trackmap:field:<project>:<field>.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend connects to url and verifies the connection.
func NewRedisBackend(ctx context.Context, url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisBackendFromClient(client), nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client, prefix: "trackmap:field:"}
}

func (b *RedisBackend) key(k Key) string {
	return b.prefix + k.ProjectID + ":" + k.FieldID
}

func (b *RedisBackend) Fetch(ctx context.Context, key Key) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, wrapBackend("get", key, err)
	}
	return data, nil
}

func (b *RedisBackend) Put(ctx context.Context, key Key, data []byte) error {
	if err := b.client.Set(ctx, b.key(key), data, 0).Err(); err != nil {
		return wrapBackend("set", key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.client.Close() }

var _ Backend = (*RedisBackend)(nil)
