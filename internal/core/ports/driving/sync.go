package driving

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// SyncOrchestrator starts catalog synchronisation to the marketing API.
type SyncOrchestrator interface {
	// StartFullSync registers the store remotely and seeds the first page of
	// every independent resource chain. It returns the jobs it enqueued.
	StartFullSync(ctx context.Context, opts SyncOptions) ([]domain.SyncJob, error)

	// Status returns recorded progress for the configured store.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncOptions narrows or forces a full sync.
type SyncOptions struct {
	// Resource limits the sync to one chain head. Empty means every head.
	Resource domain.ResourceType

	// Force ignores the resync window and any jobs still queued.
	Force bool
}

// SyncStatus is the recorded state of a store's resources and the queue.
type SyncStatus struct {
	// StoreID identifies the store.
	StoreID string

	// Resources holds one entry per resource that has run.
	Resources []domain.SyncRunState

	// Queue is the job queue depth.
	Queue domain.QueueStats
}

// Worker drains the job queue.
type Worker interface {
	// Run processes jobs until ctx is cancelled.
	Run(ctx context.Context) error

	// Drain processes jobs until the queue is empty and returns how many ran.
	Drain(ctx context.Context) (int, error)
}

// Scheduler starts full syncs on an interval.
type Scheduler interface {
	// Start blocks, triggering syncs until Stop is called or ctx ends.
	Start(ctx context.Context) error

	// Stop ends the loop.
	Stop() error
}
