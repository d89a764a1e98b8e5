package driven

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// JobQueue is a durable at-least-once queue of sync jobs.
// A dequeued job is leased to the caller until it is completed or buried;
// implementations may redeliver leased jobs after a crash.
type JobQueue interface {
	// Enqueue adds a job to the tail of the queue.
	Enqueue(ctx context.Context, job domain.SyncJob) error

	// Dequeue leases the oldest pending job.
	// Returns domain.ErrQueueEmpty when no job is ready.
	Dequeue(ctx context.Context) (*domain.SyncJob, error)

	// Complete acknowledges a leased job and removes it from the pending set.
	Complete(ctx context.Context, jobID string) error

	// Bury marks a leased job permanently failed.
	// Buried jobs are kept for inspection and never redelivered.
	Bury(ctx context.Context, jobID, reason string) error

	// Stats returns queue depth by status.
	Stats(ctx context.Context) (domain.QueueStats, error)
}
