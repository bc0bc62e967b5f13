package configstore

import (
	"context"
)

// SyncStore is the blocking face of a Store, for callers without a context.
// Each call runs the Store's context-taking method to completion on a private
// context, bounded by WithSyncTimeout when set.
type SyncStore struct {
	store *Store
}

// Sync returns the blocking adapter for s.
func (s *Store) Sync() *SyncStore {
	return &SyncStore{store: s}
}

func (s *SyncStore) newContext() (context.Context, context.CancelFunc) {
	if d := s.store.config.syncTimeout; d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func block[R any](s *SyncStore, fn func(ctx context.Context) (R, error)) (R, error) {
	ctx, cancel := s.newContext()
	defer cancel()
	return fn(ctx)
}

func (s *SyncStore) Read(key Key, opts ...ReadOption) (*ConfigModel, error) {
	return block(s, func(ctx context.Context) (*ConfigModel, error) {
		return s.store.Read(ctx, key, opts...)
	})
}

func (s *SyncStore) Save(key Key, data string) (bool, error) {
	return block(s, func(ctx context.Context) (bool, error) {
		return s.store.Save(ctx, key, data)
	})
}

func (s *SyncStore) Get(key Key, opts ...ReadOption) (any, error) {
	return block(s, func(ctx context.Context) (any, error) {
		return s.store.Get(ctx, key, opts...)
	})
}

func (s *SyncStore) GetString(key string, opts ...ReadOption) (string, bool, error) {
	var found bool
	data, err := block(s, func(ctx context.Context) (string, error) {
		var (
			v   string
			err error
		)
		v, found, err = s.store.GetString(ctx, key, opts...)
		return v, err
	})
	return data, found, err
}

func (s *SyncStore) Set(key Key, data string) error {
	_, err := block(s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.Set(ctx, key, data)
	})
	return err
}

func (s *SyncStore) SetValue(v any) error {
	_, err := block(s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.SetValue(ctx, v)
	})
	return err
}

// SyncGetAs is the blocking form of GetAs.
func SyncGetAs[T any](s *SyncStore, opts ...ReadOption) (*T, error) {
	return block(s, func(ctx context.Context) (*T, error) {
		return GetAs[T](ctx, s.store, opts...)
	})
}
