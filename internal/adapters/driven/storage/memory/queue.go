package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// Ensure JobQueue implements the interface.
var _ driven.JobQueue = (*JobQueue)(nil)

// JobQueue is an in-memory FIFO implementation of driven.JobQueue.
// Jobs do not survive the process; leased jobs are never redelivered.
type JobQueue struct {
	mu      sync.Mutex
	pending []domain.SyncJob
	leased  map[string]domain.SyncJob
	done    int
	buried  map[string]BuriedJob
}

// BuriedJob is a permanently failed job and the reason it was buried.
type BuriedJob struct {
	Job    domain.SyncJob
	Reason string
}

// NewJobQueue creates an empty queue.
func NewJobQueue() *JobQueue {
	return &JobQueue{
		leased: make(map[string]domain.SyncJob),
		buried: make(map[string]BuriedJob),
	}
}

// Enqueue appends a job.
func (q *JobQueue) Enqueue(_ context.Context, job domain.SyncJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, job)
	return nil
}

// Dequeue leases the oldest pending job.
func (q *JobQueue) Dequeue(ctx context.Context) (*domain.SyncJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, domain.ErrQueueEmpty
	}
	job := q.pending[0]
	q.pending = q.pending[1:]
	q.leased[job.ID] = job
	return &job, nil
}

// Complete acknowledges a leased job.
func (q *JobQueue) Complete(_ context.Context, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.leased[jobID]; !ok {
		return fmt.Errorf("complete job %s: %w", jobID, domain.ErrNotFound)
	}
	delete(q.leased, jobID)
	q.done++
	return nil
}

// Bury marks a leased job permanently failed.
func (q *JobQueue) Bury(_ context.Context, jobID, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.leased[jobID]
	if !ok {
		return fmt.Errorf("bury job %s: %w", jobID, domain.ErrNotFound)
	}
	delete(q.leased, jobID)
	q.buried[jobID] = BuriedJob{Job: job, Reason: reason}
	return nil
}

// Stats returns queue depth by status.
func (q *JobQueue) Stats(_ context.Context) (domain.QueueStats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return domain.QueueStats{
		Pending: len(q.pending),
		Running: len(q.leased),
		Done:    q.done,
		Buried:  len(q.buried),
	}, nil
}

// Pending returns a copy of the jobs waiting to be dequeued, oldest first.
func (q *JobQueue) Pending() []domain.SyncJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.SyncJob, len(q.pending))
	copy(out, q.pending)
	return out
}

// Buried returns the buried job with jobID.
func (q *JobQueue) Buried(jobID string) (BuriedJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	b, ok := q.buried[jobID]
	return b, ok
}
