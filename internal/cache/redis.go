package cache

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightcart/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps reference blobs in Redis without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		prefix: cfg.KeyPrefix,
	}
}

// Get returns nil, nil when the key is absent.
func (c *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (c *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.key(key), value, 0).Err()
}

func (c *RedisStore) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *RedisStore) Close() error {
	return c.client.Close()
}

func (c *RedisStore) key(k string) string {
	return c.prefix + k
}
