package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is the versioned key the memory store snapshots under. A
// schema change bumps the version, abandoning older incompatible data
// instead of migrating it.
const SnapshotKey = "applynow:applications:v3"

// KV is the minimal persistent key-value collaborator for the memory store.
// Get returns (nil, nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisKV backs the KV contract with Redis.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}
