package cache

import (
	"context"
	"sync"

	"github.com/CreativeUnicorns/configstore"
)

// stubStorage is a minimal configstore.Storage for wiring caches into a Store.
type stubStorage struct {
	mu    sync.Mutex
	rows  map[string]string
	reads int
}

func newStubStorage() *stubStorage {
	return &stubStorage{rows: make(map[string]string)}
}

func (s *stubStorage) Read(_ context.Context, key string) (*configstore.ConfigModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	data, ok := s.rows[key]
	if !ok {
		return nil, configstore.ErrNotFound
	}
	return &configstore.ConfigModel{Key: key, Name: key, Data: data}, nil
}

func (s *stubStorage) Save(_ context.Context, key, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key] = data
	return nil
}

func (s *stubStorage) List(context.Context) ([]*configstore.ConfigModel, error) { return nil, nil }

func (s *stubStorage) Describe(context.Context, string, string, string) error { return nil }

func (s *stubStorage) Handle() any { return s }

func (s *stubStorage) Close() error { return nil }
