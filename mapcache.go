package configstore

import (
	"context"
	"sync"
)

// mapCache is the default Cache: an unbounded map guarded by a mutex.
// A nil row is kept as a negative entry.
type mapCache struct {
	mu   sync.RWMutex
	rows map[string]*ConfigModel
}

func newMapCache() *mapCache {
	return &mapCache{rows: make(map[string]*ConfigModel)}
}

func (c *mapCache) Get(_ context.Context, key string) (*ConfigModel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	row, ok := c.rows[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return row.Clone(), nil
}

func (c *mapCache) Set(_ context.Context, key string, row *ConfigModel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows[key] = row.Clone()
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rows, key)
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.rows[key]
	return ok, nil
}

func (c *mapCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = make(map[string]*ConfigModel)
	return nil
}
