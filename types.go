// Package configstore defines the core types used by the configuration store.
package configstore

import (
	"time"
)

// ConfigModel is one persisted configuration row.
// JSON tags match the column names of the system_config table and are also used
// by cache backends that serialize rows.
type ConfigModel struct {
	// ID is the surrogate primary key assigned by the storage backend.
	ID int64 `json:"id"`
	// Key uniquely identifies the row. It is the only addressing scheme for configuration.
	Key string `json:"key"`
	// Name is the display name. New rows start with Name equal to Key.
	Name string `json:"name"`
	// Desc is an optional free-form description.
	Desc string `json:"desc"`
	// Data is the opaque payload, typically a JSON document.
	Data string `json:"data"`
	// CreateTime is set when the row is inserted.
	CreateTime time.Time `json:"create_time"`
	// UpdateTime is set on insert and refreshed on every update.
	UpdateTime time.Time `json:"update_time"`
}

// Clone returns a detached copy of the row. A nil receiver yields nil.
func (m *ConfigModel) Clone() *ConfigModel {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Config holds the internal configuration for a Store.
// It is populated by applying functional Options in New.
type Config struct {
	storage     Storage
	cache       Cache
	logger      Logger
	encryptor   Encryptor
	syncTimeout time.Duration
}

// Option configures a Store.
type Option func(*Config)

// WithStorage sets the persistence backend. A Store without storage fails every
// read with ErrNotImplemented.
func WithStorage(s Storage) Option {
	return func(c *Config) {
		c.storage = s
	}
}

// WithCache sets the cache backend. When omitted the Store uses an unbounded
// in-process map.
func WithCache(cache Cache) Option {
	return func(c *Config) {
		c.cache = cache
	}
}

// WithLogger sets the Logger used by the Store.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithEncryption encrypts payloads before they reach storage and decrypts them on read.
// Cached rows keep the encrypted payload.
func WithEncryption(e Encryptor) Option {
	return func(c *Config) {
		c.encryptor = e
	}
}

// WithSyncTimeout bounds each call made through the SyncStore adapter.
// Zero means no deadline.
func WithSyncTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.syncTimeout = d
	}
}

type readOptions struct {
	cache bool
}

// ReadOption adjusts a single read.
type ReadOption func(*readOptions)

// WithoutCache forces the read to query storage. The outcome still refreshes the cache.
func WithoutCache() ReadOption {
	return func(o *readOptions) {
		o.cache = false
	}
}

func applyReadOptions(opts []ReadOption) readOptions {
	o := readOptions{cache: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
