package mocks

import (
	"context"
	"sync"
)

// KeyValueRepositoryMock is an in-memory KeyValueRepository. The function
// fields override individual operations when set; otherwise the backing map
// is used.
type KeyValueRepositoryMock struct {
	GetFunc func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc func(ctx context.Context, key string, value []byte) error

	mu     sync.Mutex
	values map[string][]byte
	// SetCalls counts successful writes through the backing map.
	SetCalls int
}

func (m *KeyValueRepositoryMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *KeyValueRepositoryMock) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = value
	m.SetCalls++
	return nil
}

// Seed stores a value directly in the backing map.
func (m *KeyValueRepositoryMock) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = value
}

// Stored returns the raw value last written for key.
func (m *KeyValueRepositoryMock) Stored(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}
