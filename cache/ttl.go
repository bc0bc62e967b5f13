package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/CreativeUnicorns/configstore"
)

// TTLCache is an in-process cache backed by ttlcache, with a fixed time-to-live
// counted from the last write and an optional capacity bound.
type TTLCache struct {
	cache    *ttlcache.Cache[string, *configstore.ConfigModel]
	stopOnce sync.Once
}

// NewTTLCache starts a TTLCache. A capacity of zero means unbounded.
func NewTTLCache(ttl time.Duration, capacity uint64) *TTLCache {
	opts := []ttlcache.Option[string, *configstore.ConfigModel]{
		ttlcache.WithTTL[string, *configstore.ConfigModel](ttl),
		ttlcache.WithDisableTouchOnHit[string, *configstore.ConfigModel](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, *configstore.ConfigModel](capacity))
	}

	c := ttlcache.New[string, *configstore.ConfigModel](opts...)
	go c.Start()
	return &TTLCache{cache: c}
}

func (c *TTLCache) Get(_ context.Context, key string) (*configstore.ConfigModel, error) {
	it := c.cache.Get(key)
	if it == nil {
		return nil, configstore.ErrCacheMiss
	}
	return it.Value().Clone(), nil
}

func (c *TTLCache) Set(_ context.Context, key string, row *configstore.ConfigModel) error {
	c.cache.Set(key, row.Clone(), ttlcache.DefaultTTL)
	return nil
}

func (c *TTLCache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *TTLCache) Exists(_ context.Context, key string) (bool, error) {
	return c.cache.Has(key), nil
}

// Close stops expiry processing and drops every entry.
func (c *TTLCache) Close() error {
	c.stopOnce.Do(c.cache.Stop)
	c.cache.DeleteAll()
	return nil
}
