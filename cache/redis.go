// cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CreativeUnicorns/configstore"
)

const (
	// DefaultRedisExpire is how long a row stays in Redis when no expiry is given.
	DefaultRedisExpire = 24 * time.Hour

	redisKeyPrefix = "config:"
)

// redisClient is the subset of *redis.Client used by RedisCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisCache stores rows as JSON under "config:<key>" with a fixed expiry.
// A negative entry is stored as an empty string.
type RedisCache struct {
	client redisClient
	expire time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with PING.
// An expire of zero selects DefaultRedisExpire.
func NewRedisCache(addr string, password string, db int, expire time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: failed to connect to redis: %v", configstore.ErrCacheUnavailable, err)
	}

	return newRedisCache(client, expire), nil
}

func newRedisCache(client redisClient, expire time.Duration) *RedisCache {
	if expire <= 0 {
		expire = DefaultRedisExpire
	}
	return &RedisCache{client: client, expire: expire}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*configstore.ConfigModel, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, configstore.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get from redis: %v", configstore.ErrCacheUnavailable, err)
	}
	if data == "" {
		return nil, nil
	}

	var row configstore.ConfigModel
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached row '%s': %w", key, err)
	}
	return &row, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, row *configstore.ConfigModel) error {
	var value string
	if row != nil {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row '%s': %w", key, err)
		}
		value = string(data)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, value, c.expire).Err(); err != nil {
		return fmt.Errorf("%w: failed to set in redis: %v", configstore.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete from redis: %v", configstore.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to query redis: %v", configstore.ErrCacheUnavailable, err)
	}
	return n > 0, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
