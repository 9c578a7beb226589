package interpreter

import (
	"maps"
	"slices"
	"sync"
)

// Memory is the open store handlers use to share state across steps.
// Each operation is safe for concurrent use; ordering between handlers
// touching the same keys is up to the handlers.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory creates an empty Memory
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// Get returns the value stored under key
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Delete removes key
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Update replaces the value under key with fn(old, present) atomically
// with respect to other Memory operations.
func (m *Memory) Update(key string, fn func(old any, ok bool) any) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.values[key]
	v := fn(old, ok)
	m.values[key] = v
	return v
}

// Keys returns the stored keys in sorted order
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.values))
}

// Snapshot returns a shallow copy of the store
func (m *Memory) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

// Clear removes every key
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
}

// Int returns the value under key as an int. Numeric values of other
// kinds are converted; anything else reports false.
func (m *Memory) Int(key string) (int, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
