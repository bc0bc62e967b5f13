// Package configstore defines interfaces for storage, caching, encryption and logging.
package configstore

import (
	"context"
)

// Storage is the persistence handle behind a Store.
// Every call runs in its own unit of work and returns rows detached from it.
type Storage interface {
	// Read returns the row stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) (*ConfigModel, error)
	// Save inserts a row named after key or updates the data of the existing row,
	// committing before it returns.
	Save(ctx context.Context, key, data string) error
	// List returns every row ordered by key.
	List(ctx context.Context) ([]*ConfigModel, error)
	// Describe updates the display name and description of an existing row.
	Describe(ctx context.Context, key, name, desc string) error
	// Handle identifies the underlying database. Stores are shared per handle.
	Handle() any
	Close() error
}

// Cache holds the last known row for a key.
//
// Get returns ErrCacheMiss when nothing is cached for key, and (nil, nil) when a
// negative entry was stored with Set(ctx, key, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*ConfigModel, error)
	Set(ctx context.Context, key string, row *ConfigModel) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Encryptor protects payloads at rest.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
