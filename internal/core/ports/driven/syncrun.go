package driven

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// SyncRunStore persists per-resource sync progress.
type SyncRunStore interface {
	// Save stores or updates a run state, keyed by store and resource.
	Save(ctx context.Context, state domain.SyncRunState) error

	// Get retrieves the state of one resource.
	// Returns nil and no error if nothing has been recorded yet.
	Get(ctx context.Context, storeID string, resource domain.ResourceType) (*domain.SyncRunState, error)

	// List returns every recorded state for a store, ordered by resource.
	List(ctx context.Context, storeID string) ([]domain.SyncRunState, error)

	// Delete removes the state of one resource.
	Delete(ctx context.Context, storeID string, resource domain.ResourceType) error
}
