// Package cache provides in-memory caching implementations.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/CreativeUnicorns/configstore"
)

// item is a cached row with an optional expiration. A nil row is a negative entry.
type item struct {
	row        *configstore.ConfigModel
	expiration time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expiration.IsZero() && now.After(it.expiration)
}

// MemoryCache keeps rows in a map. Entries expire after the configured TTL;
// a background goroutine sweeps expired entries once a minute.
type MemoryCache struct {
	mu        sync.RWMutex
	items     map[string]item
	ttl       time.Duration
	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryCache returns a MemoryCache whose entries live for ttl.
// A ttl of zero keeps entries until they are deleted.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	cache := &MemoryCache{
		items: make(map[string]item),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go cache.gc(time.Minute)
	return cache
}

// Get returns a copy of the cached row. Missing and expired keys yield ErrCacheMiss.
func (c *MemoryCache) Get(_ context.Context, key string) (*configstore.ConfigModel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || it.expired(time.Now()) {
		return nil, configstore.ErrCacheMiss
	}
	return it.row.Clone(), nil
}

// Set stores a copy of row under key. A nil row records a negative entry.
func (c *MemoryCache) Set(_ context.Context, key string, row *configstore.ConfigModel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiration time.Time
	if c.ttl > 0 {
		expiration = time.Now().Add(c.ttl)
	}

	c.items[key] = item{
		row:        row.Clone(),
		expiration: expiration,
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	return exists && !it.expired(time.Now()), nil
}

// Close stops the sweeper and drops every entry. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
	return nil
}

// gc periodically removes expired items until Close.
func (c *MemoryCache) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}
