// errors.go
package configstore

import "errors"

var (
	ErrInvalidKey         = errors.New("invalid configuration key")
	ErrNotFound           = errors.New("configuration not found")
	ErrCacheMiss          = errors.New("configuration not cached")
	ErrNotImplemented     = errors.New("configuration storage not implemented")
	ErrDeserialization    = errors.New("configuration payload cannot be decoded")
	ErrSerialization      = errors.New("configuration value cannot be encoded")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
	ErrCacheUnavailable   = errors.New("cache backend unavailable")
)
