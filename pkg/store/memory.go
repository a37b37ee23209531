package store

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps records in process. Records are copied on the way in
// and out so callers never share state with the map.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryBackend returns an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

func (m *MemoryBackend) Put(_ context.Context, rec Record) error {
	rec.Item = rec.Item.Clone()
	m.mu.Lock()
	m.records[rec.RegistryID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, id string) (Record, bool, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return Record{}, false, nil
	}
	rec.Item = rec.Item.Clone()
	return rec, true, nil
}

func (m *MemoryBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) DeleteIfExpired(_ context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || !rec.Expired(now) {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *MemoryBackend) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, rec := range m.records {
		if rec.ExpiresAt.Before(now) {
			delete(m.records, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of records held, expired or not.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
