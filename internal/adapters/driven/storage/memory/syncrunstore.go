package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// Ensure SyncRunStore implements the interface.
var _ driven.SyncRunStore = (*SyncRunStore)(nil)

type runKey struct {
	storeID  string
	resource domain.ResourceType
}

// SyncRunStore is an in-memory implementation of driven.SyncRunStore.
type SyncRunStore struct {
	mu     sync.RWMutex
	states map[runKey]domain.SyncRunState
}

// NewSyncRunStore creates a new in-memory run store.
func NewSyncRunStore() *SyncRunStore {
	return &SyncRunStore{
		states: make(map[runKey]domain.SyncRunState),
	}
}

// Save stores or updates a run state.
func (s *SyncRunStore) Save(_ context.Context, state domain.SyncRunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[runKey{state.StoreID, state.Resource}] = state
	return nil
}

// Get retrieves the state of one resource, or nil when none is recorded.
func (s *SyncRunStore) Get(_ context.Context, storeID string, resource domain.ResourceType) (*domain.SyncRunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[runKey{storeID, resource}]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// List returns every state recorded for storeID ordered by resource.
func (s *SyncRunStore) List(_ context.Context, storeID string) ([]domain.SyncRunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SyncRunState
	for k, state := range s.states {
		if k.storeID == storeID {
			out = append(out, state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out, nil
}

// Delete removes the state of one resource.
func (s *SyncRunStore) Delete(_ context.Context, storeID string, resource domain.ResourceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, runKey{storeID, resource})
	return nil
}
