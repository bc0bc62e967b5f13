package configstore

import (
	"errors"
	"sync"
)

// Registry shares one Store per database handle, so every caller working against
// the same database also shares its cache.
//
// Entries never expire. They live until Close, normally called at process shutdown.
type Registry struct {
	mu     sync.Mutex
	stores map[any]*Store
}

// DefaultRegistry is the process-wide registry used by Open.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[any]*Store),
	}
}

// Register returns the Store already registered for storage.Handle(), or creates
// one with WithStorage(storage) plus opts and registers it. When a Store exists,
// opts are ignored.
func (r *Registry) Register(storage Storage, opts ...Option) *Store {
	handle := storage.Handle()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[handle]; ok {
		return s
	}
	s := New(append([]Option{WithStorage(storage)}, opts...)...)
	r.stores[handle] = s
	return s
}

// Lookup returns the Store registered for handle.
func (r *Registry) Lookup(handle any) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[handle]
	return s, ok
}

// Len reports the number of registered stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Close closes every registered Store's cache and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for handle, s := range r.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.stores, handle)
	}
	return errors.Join(errs...)
}

// Open registers storage with DefaultRegistry.
func Open(storage Storage, opts ...Option) *Store {
	return DefaultRegistry.Register(storage, opts...)
}
