// Package cache provides Cache backends for the configuration store.
//
// Every backend follows the same contract: Get returns configstore.ErrCacheMiss
// when nothing is cached, (nil, nil) for a negative entry stored with a nil row,
// and a copy of the row otherwise. Exists reports whatever was last Set or Deleted.
package cache

import (
	"github.com/CreativeUnicorns/configstore"
)

var (
	_ configstore.Cache = (*MemoryCache)(nil)
	_ configstore.Cache = (*TTLCache)(nil)
	_ configstore.Cache = (*RedisCache)(nil)
	_ configstore.Cache = NopCache{}
)
