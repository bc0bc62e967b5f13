package cache

import (
	"context"

	"github.com/CreativeUnicorns/configstore"
)

// NopCache caches nothing; every read goes to storage.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*configstore.ConfigModel, error) {
	return nil, configstore.ErrCacheMiss
}

func (NopCache) Set(context.Context, string, *configstore.ConfigModel) error { return nil }

func (NopCache) Delete(context.Context, string) error { return nil }

func (NopCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (NopCache) Close() error { return nil }
