package backend

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

// DefaultMemoryMaxEntries bounds the memory backend when no limit is configured.
const DefaultMemoryMaxEntries = 1000

// MemoryConfig configures the in-memory backend.
type MemoryConfig struct {
	// MaxEntries is the whole-backend entry bound across all keys.
	// When a Put would exceed it, the least-recently-used entry is
	// evicted. Default: DefaultMemoryMaxEntries.
	MaxEntries int
}

// Memory is a process-local backend bounded by an LRU limit.
//
// Both Get and Put count as use for recency. Memory never returns
// ErrUnavailable.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List // front = most recently used
	entries    map[string]*list.Element
}

type memoryEntry struct {
	key   string
	value []byte
}

// NewMemory creates an in-memory backend.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMemoryMaxEntries
	}
	return &Memory{
		maxEntries: cfg.MaxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get retrieves the value for key and marks it recently used.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	m.order.MoveToFront(elem)

	// Copy so callers cannot mutate the stored value.
	stored := elem.Value.(*memoryEntry).value
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, true, nil
}

// Put stores value under key, evicting least-recently-used entries when
// the whole-backend bound is exceeded.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		elem.Value.(*memoryEntry).value = stored
		m.order.MoveToFront(elem)
		return nil
	}

	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, value: stored})

	for len(m.entries) > m.maxEntries {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Evict removes key. Idempotent.
func (m *Memory) Evict(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		m.order.Remove(elem)
		delete(m.entries, key)
	}
	return nil
}

// Len reports the current entry count. Intended for tests and health checks.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// String identifies the backend in logs and health reports.
func (m *Memory) String() string {
	return fmt.Sprintf("memory(max_entries=%d)", m.maxEntries)
}

// Ensure Memory implements Backend
var _ Backend = (*Memory)(nil)
