package cache

import (
	"context"
	"sync"
	"time"
)

// SnapshotStore holds computed snapshots keyed by locale.
type SnapshotStore interface {
	Get(ctx context.Context, locale string) (*Snapshot, bool, error)
	Set(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, locale string) error
}

type sweeper interface {
	Sweep(now time.Time) int
}

// MemoryStore is a process-local SnapshotStore.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Get(_ context.Context, locale string) (*Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.items[locale]
	return snap, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, snap *Snapshot, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[snap.Locale] = snap
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, locale)
	return nil
}

// Sweep drops snapshots that are no longer live and returns how many were removed.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for locale, snap := range m.items {
		if !snap.Live(now) {
			delete(m.items, locale)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored snapshots, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ SnapshotStore = (*MemoryStore)(nil)
