package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores keys under a namespace prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. Closing the store does not close the client.
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, prefix: namespace + ":"}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete issues a single DEL, which redis applies atomically.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = r.prefix + key
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *Redis) Close() error { return nil }
