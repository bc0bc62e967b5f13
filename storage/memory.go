package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CreativeUnicorns/configstore"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// This is useful for testing or for applications that do not need persistence.
type MemoryStorage struct {
	mu     sync.RWMutex
	rows   map[string]*configstore.ConfigModel
	nextID int64
}

// NewMemoryStorage creates a new instance of MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		rows: make(map[string]*configstore.ConfigModel),
	}
}

// Read returns a copy of the row stored under key.
func (s *MemoryStorage) Read(_ context.Context, key string) (*configstore.ConfigModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[key]
	if !ok {
		return nil, configstore.ErrNotFound
	}
	return row.Clone(), nil
}

// Save inserts a row named after key or replaces the data of the existing one.
func (s *MemoryStorage) Save(_ context.Context, key, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if row, ok := s.rows[key]; ok {
		row.Data = data
		row.UpdateTime = now
		return nil
	}

	s.nextID++
	s.rows[key] = &configstore.ConfigModel{
		ID:         s.nextID,
		Key:        key,
		Name:       key,
		Data:       data,
		CreateTime: now,
		UpdateTime: now,
	}
	return nil
}

// List returns copies of every row ordered by key.
func (s *MemoryStorage) List(_ context.Context) ([]*configstore.ConfigModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*configstore.ConfigModel, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStorage) Describe(_ context.Context, key, name, desc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[key]
	if !ok {
		return configstore.ErrNotFound
	}
	row.Name = name
	row.Desc = desc
	row.UpdateTime = time.Now().UTC()
	return nil
}

func (s *MemoryStorage) Handle() any {
	return s
}

// Close is a no-op for MemoryStorage as there are no external resources to release.
func (s *MemoryStorage) Close() error {
	return nil
}
