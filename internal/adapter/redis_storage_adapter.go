package adapter

import (
	"context"

	"ct-assessment/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStorageAdapter implements the domain.Storage interface on a Redis
// client. Values are whole JSON documents; entries never expire.
type RedisStorageAdapter struct {
	client *redis.Client
}

// NewRedisStorageAdapter creates a new instance of RedisStorageAdapter.
// It expects a connected *redis.Client.
func NewRedisStorageAdapter(client *redis.Client) domain.Storage {
	return &RedisStorageAdapter{client: client}
}

// Get retrieves a document. It translates redis.Nil to domain.ErrKeyNotFound.
func (r *RedisStorageAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domain.ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

// Set rewrites the entire document for a key.
func (r *RedisStorageAdapter) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete removes a document.
func (r *RedisStorageAdapter) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks the health of the Redis server.
func (r *RedisStorageAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
