package storage

import (
	"context"
	"sync"
)

// Memory is a volatile Store. It backs the session store and tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.values[key]; ok {
		clear(old)
	}
	m.values[key] = append([]byte(nil), value...)

	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.values[key]; ok {
		clear(old)
		delete(m.values, key)
	}

	return nil
}

// Clear zeroes and drops every value.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range m.values {
		clear(value)
		delete(m.values, key)
	}
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}

func (m *Memory) Close() error {
	m.Clear()
	return nil
}
