package configstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStorage implements the Storage interface for testing.
// It counts calls so tests can tell whether a read reached persistence.
type MockStorage struct {
	mu      sync.RWMutex
	rows    map[string]*ConfigModel
	nextID  int64
	closed  bool
	readErr error
	saveErr error

	Reads int
	Saves int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		rows: make(map[string]*ConfigModel),
	}
}

func (m *MockStorage) Read(ctx context.Context, key string) (*ConfigModel, error) {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Reads++
	if m.closed {
		return nil, ErrStorageUnavailable
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	row, ok := m.rows[key]
	if !ok {
		return nil, ErrNotFound
	}
	return row.Clone(), nil
}

func (m *MockStorage) Save(ctx context.Context, key, data string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Saves++
	if m.closed {
		return ErrStorageUnavailable
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	now := time.Now()
	if row, ok := m.rows[key]; ok {
		row.Data = data
		row.UpdateTime = now
		return nil
	}
	m.nextID++
	m.rows[key] = &ConfigModel{ID: m.nextID, Key: key, Name: key, Data: data, CreateTime: now, UpdateTime: now}
	return nil
}

func (m *MockStorage) List(ctx context.Context) ([]*ConfigModel, error) {
	_, _ = ctx.Deadline()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStorageUnavailable
	}
	out := make([]*ConfigModel, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MockStorage) Describe(ctx context.Context, key, name, desc string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[key]
	if !ok {
		return ErrNotFound
	}
	row.Name = name
	row.Desc = desc
	return nil
}

func (m *MockStorage) Handle() any {
	return m
}

func (m *MockStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// count returns the number of rows stored under key, which is at most one.
func (m *MockStorage) count(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.rows[key]; ok {
		return 1
	}
	return 0
}

func (m *MockStorage) reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Reads
}

// MockCache implements the Cache interface for testing.
// getErr and deleteErr simulate an unavailable backend.
type MockCache struct {
	mu        sync.RWMutex
	data      map[string]*ConfigModel
	closed    bool
	getErr    error
	deleteErr error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]*ConfigModel),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (*ConfigModel, error) {
	_, _ = ctx.Deadline()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrCacheUnavailable
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	row, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return row.Clone(), nil
}

func (m *MockCache) Set(ctx context.Context, key string, row *ConfigModel) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrCacheUnavailable
	}
	m.data[key] = row.Clone()
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrCacheUnavailable
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, _ = ctx.Deadline()
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrCacheUnavailable
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.record("DEBUG", msg, args...)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.record("INFO", msg, args...)
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.record("WARN", msg, args...)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.record("ERROR", msg, args...)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	m.record("SET_LEVEL", fmt.Sprint(level))
}

func (m *MockLogger) record(level, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(args) > 0 {
		m.Messages = append(m.Messages, fmt.Sprintf("%s: %s %v", level, msg, args))
		return
	}
	m.Messages = append(m.Messages, fmt.Sprintf("%s: %s", level, msg))
}

func (m *MockLogger) contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// reverseEncryptor is a reversible stand-in for encryption.Manager.
type reverseEncryptor struct {
	failDecrypt bool
}

func (r reverseEncryptor) Encrypt(plaintext string) (string, error) {
	return "enc:" + reverse(plaintext), nil
}

func (r reverseEncryptor) Decrypt(ciphertext string) (string, error) {
	if r.failDecrypt || !strings.HasPrefix(ciphertext, "enc:") {
		return "", fmt.Errorf("not encrypted: %q", ciphertext)
	}
	return reverse(strings.TrimPrefix(ciphertext, "enc:")), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
