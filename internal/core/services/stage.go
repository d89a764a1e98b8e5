package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// Stage pushes one resource type of the local catalog to the marketing API.
// A stage instance is stateless; all progress lives in the job payload and
// the run store.
type Stage interface {
	// Resource returns the resource type the stage handles.
	Resource() domain.ResourceType

	// Action returns the queue dispatch name of the stage.
	Action() string

	// Iterate pushes a single entity. Transport errors abort the page; any
	// other error is counted as an item failure.
	Iterate(ctx context.Context, storeID string, entity domain.Entity) error

	// Complete runs once after the last page of a run has been attempted.
	Complete(ctx context.Context, job domain.SyncJob) error
}

// StageRegistry maps queue actions to stages.
type StageRegistry struct {
	mu     sync.RWMutex
	stages map[string]Stage
}

// NewStageRegistry creates a registry holding stages.
func NewStageRegistry(stages ...Stage) *StageRegistry {
	r := &StageRegistry{stages: make(map[string]Stage)}
	for _, s := range stages {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the stage for its action.
func (r *StageRegistry) Register(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[s.Action()] = s
}

// ByAction returns the stage dispatched by action.
func (r *StageRegistry) ByAction(action string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[action]
	if !ok {
		return nil, fmt.Errorf("%w: no stage for action %q", domain.ErrUnknownResource, action)
	}
	return s, nil
}

// Has reports whether a stage is registered for resource.
func (r *StageRegistry) Has(resource domain.ResourceType) bool {
	_, err := r.ByAction(resource.Action())
	return err == nil
}

// Actions returns the registered action names in sorted order.
func (r *StageRegistry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]string, 0, len(r.stages))
	for a := range r.stages {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

// unexpectedEntity reports an entity handed to the wrong stage.
func unexpectedEntity(resource domain.ResourceType, entity domain.Entity) error {
	id := ""
	if entity != nil {
		id = entity.EntityID()
	}
	return &domain.ValidationError{
		Resource: resource,
		ID:       id,
		Fields:   []string{fmt.Sprintf("unexpected entity type %T", entity)},
	}
}
