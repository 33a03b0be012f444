// Package cache holds FilterCache implementations that need no backing
// service.
package cache

import (
	"context"
	"sync"
)

// Nop never stores anything. It is used when caching is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]int64, bool) { return nil, false }

func (Nop) Set(context.Context, string, []int64) error { return nil }

// Map keeps entries in process memory without expiry. Tests use it to
// observe which stage keys were consulted.
type Map struct {
	mu      sync.Mutex
	entries map[string][]int64
}

func NewMap() *Map {
	return &Map{entries: make(map[string][]int64)}
}

func (m *Map) Get(_ context.Context, key string) ([]int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), ids...), true
}

func (m *Map) Set(_ context.Context, key string, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]int64{}, ids...)
	return nil
}

func (m *Map) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
