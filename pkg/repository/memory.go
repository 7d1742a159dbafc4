package repository

import (
	"context"
	"sync"
)

// memoryStore keeps node records in a map.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemorySession creates a session over a new, empty in-memory
// repository. It is intended for tests and dry runs; nothing is persisted.
func NewMemorySession() Session {
	return newTreeSession("memory", &memoryStore{records: make(map[string][]byte)})
}

func (m *memoryStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// update holds the write lock while fn reads and the result is applied.
func (m *memoryStore) update(ctx context.Context, fn updateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	puts, deletes, err := fn(func(ctx context.Context, key string) ([]byte, bool, error) {
		data, ok := m.records[key]
		if !ok {
			return nil, false, nil
		}
		return append([]byte(nil), data...), true, nil
	})
	if err != nil {
		return err
	}

	for _, key := range deletes {
		delete(m.records, key)
	}
	for key, data := range puts {
		m.records[key] = append([]byte(nil), data...)
	}
	return nil
}

func (m *memoryStore) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string][]byte)
	return nil
}
