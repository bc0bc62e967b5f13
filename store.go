// store.go
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Store coordinates a Cache and a Storage backend.
//
// Reads are served from the cache when possible and otherwise refresh it from
// storage, including negative results. Writes go to storage first and then delete
// the cache entry; the next read repopulates it.
type Store struct {
	config *Config
}

// New creates a Store. Without WithCache the Store keeps rows in an in-process map.
// New has no side effects; use a Registry to share one Store per database.
func New(opts ...Option) *Store {
	cfg := &Config{
		logger: NewDefaultLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.cache == nil {
		cfg.cache = newMapCache()
	}

	return &Store{
		config: cfg,
	}
}

// Read returns the row stored under key, or nil when none exists.
// The returned row is a copy the caller may keep and modify.
func (s *Store) Read(ctx context.Context, key Key, opts ...ReadOption) (*ConfigModel, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	o := applyReadOptions(opts)
	k := key.String()

	if o.cache {
		row, err := s.config.cache.Get(ctx, k)
		switch {
		case err == nil:
			return s.open(row)
		case errors.Is(err, ErrCacheMiss):
		default:
			s.config.logger.Warn("Failed to read configuration from cache", "key", k, "error", err)
		}
	}

	if s.config.storage == nil {
		return nil, fmt.Errorf("%w: cannot read '%s'", ErrNotImplemented, k)
	}

	row, err := s.config.storage.Read(ctx, k)
	if errors.Is(err, ErrNotFound) {
		row, err = nil, nil
	}
	if err != nil {
		s.config.logger.Error("Failed to read configuration", "key", k, "error", err)
		return nil, err
	}

	if err := s.config.cache.Set(ctx, k, row); err != nil {
		s.config.logger.Warn("Failed to cache configuration", "key", k, "error", err)
	}

	return s.open(row)
}

// Save stores data under key, inserting the row on first use.
// An empty payload is rejected with (false, nil) and nothing is written.
func (s *Store) Save(ctx context.Context, key Key, data string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	if data == "" {
		return false, nil
	}
	k := key.String()

	if s.config.storage == nil {
		return false, fmt.Errorf("%w: cannot save '%s'", ErrNotImplemented, k)
	}

	payload, err := s.seal(k, data)
	if err != nil {
		return false, err
	}

	if err := s.config.storage.Save(ctx, k, payload); err != nil {
		s.config.logger.Error("Failed to save configuration", "key", k, "error", err)
		return false, err
	}

	s.invalidate(ctx, k)
	s.config.logger.Debug("Configuration saved", "key", k)
	return true, nil
}

// Get returns the stored value for key, or nil when no row exists.
// For a string key the value is the raw payload string. For a schema key it is a
// pointer to a new instance of the schema type decoded from the payload; a payload
// that does not decode yields an error wrapping ErrDeserialization.
func (s *Store) Get(ctx context.Context, key Key, opts ...ReadOption) (any, error) {
	row, err := s.Read(ctx, key, opts...)
	if err != nil || row == nil {
		return nil, err
	}
	if !key.IsSchema() {
		return row.Data, nil
	}
	return key.decode(row.Data)
}

// GetString returns the raw payload stored under key. The boolean is false when no row exists.
func (s *Store) GetString(ctx context.Context, key string, opts ...ReadOption) (string, bool, error) {
	row, err := s.Read(ctx, StringKey(key), opts...)
	if err != nil || row == nil {
		return "", false, err
	}
	return row.Data, true, nil
}

// GetAs returns the value stored for schema type T, or nil when no row exists.
func GetAs[T any](ctx context.Context, s *Store, opts ...ReadOption) (*T, error) {
	key := SchemaKey[T]()
	row, err := s.Read(ctx, key, opts...)
	if err != nil || row == nil {
		return nil, err
	}

	v := new(T)
	if err := json.Unmarshal([]byte(row.Data), v); err != nil {
		return nil, fmt.Errorf("%w: key '%s' as %s: %v", ErrDeserialization, key, key.Type(), err)
	}
	return v, nil
}

// Set stores data under key. It is Save without the success flag.
func (s *Store) Set(ctx context.Context, key Key, data string) error {
	_, err := s.Save(ctx, key, data)
	return err
}

// SetValue stores a schema value under the key of its runtime type,
// encoded as JSON.
func (s *Store) SetValue(ctx context.Context, v any) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidKey)
	}
	key := TypeKey(reflect.TypeOf(v))

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: key '%s': %v", ErrSerialization, key, err)
	}
	return s.Set(ctx, key, string(data))
}

// List returns every stored row, bypassing the cache.
func (s *Store) List(ctx context.Context) ([]*ConfigModel, error) {
	if s.config.storage == nil {
		return nil, fmt.Errorf("%w: cannot list", ErrNotImplemented)
	}
	rows, err := s.config.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*ConfigModel, 0, len(rows))
	for _, row := range rows {
		opened, err := s.open(row)
		if err != nil {
			return nil, err
		}
		out = append(out, opened)
	}
	return out, nil
}

// Describe updates the display name and description of an existing row.
func (s *Store) Describe(ctx context.Context, key Key, name, desc string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	k := key.String()
	if s.config.storage == nil {
		return fmt.Errorf("%w: cannot describe '%s'", ErrNotImplemented, k)
	}
	if err := s.config.storage.Describe(ctx, k, name, desc); err != nil {
		return err
	}
	s.invalidate(ctx, k)
	return nil
}

// Close releases the cache. Storage belongs to the caller and stays open.
func (s *Store) Close() error {
	return s.config.cache.Close()
}

func (s *Store) invalidate(ctx context.Context, key string) {
	if err := s.config.cache.Delete(ctx, key); err != nil {
		s.config.logger.Error("Failed to invalidate cached configuration", "key", key, "error", err)
	}
}

// open returns a detached copy of row with its payload decrypted.
func (s *Store) open(row *ConfigModel) (*ConfigModel, error) {
	if row == nil {
		return nil, nil
	}
	out := row.Clone()
	if s.config.encryptor == nil {
		return out, nil
	}

	data, err := s.config.encryptor.Decrypt(out.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt configuration '%s': %w", out.Key, err)
	}
	out.Data = data
	return out, nil
}

func (s *Store) seal(key, data string) (string, error) {
	if s.config.encryptor == nil {
		return data, nil
	}
	sealed, err := s.config.encryptor.Encrypt(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encrypt configuration '%s': %v", ErrSerialization, key, err)
	}
	return sealed, nil
}
