package approvals

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps approval sets in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]struct{})}
}

func (m *MemoryStore) Name() string {
	return "memory"
}

func (m *MemoryStore) Add(_ context.Context, listingKey, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(listingKey)
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	set[reviewID] = struct{}{}
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, listingKey, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(listingKey)
	if set, ok := m.sets[key]; ok {
		delete(set, reviewID)
		if len(set) == 0 {
			delete(m.sets, key)
		}
	}
	return nil
}

// Members returns the set sorted; an unknown listing yields an empty slice
func (m *MemoryStore) Members(_ context.Context, listingKey string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.sets[Key(listingKey)]
	members := make([]string, 0, len(set))
	for id := range set {
		members = append(members, id)
	}
	sort.Strings(members)
	return members, nil
}
