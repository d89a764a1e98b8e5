package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// Job statuses stored in the jobs table.
const (
	statusPending = "pending"
	statusRunning = "running"
	statusDone    = "done"
	statusBuried  = "buried"
)

// JobQueue implements driven.JobQueue on the jobs table.
// A running job whose lease has expired is handed out again, so a worker
// that died mid-page does not lose the page.
type JobQueue struct {
	store *Store
}

var _ driven.JobQueue = (*JobQueue)(nil)

// Enqueue adds a job. Enqueueing an existing job ID makes it pending again.
func (q *JobQueue) Enqueue(ctx context.Context, job domain.SyncJob) error {
	enqueuedAt := job.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = q.store.now()
	}

	_, err := q.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, run_id, store_id, resource, action, page, attempt, status, enqueued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			attempt = excluded.attempt,
			reason = NULL,
			leased_at = NULL
	`, job.ID, job.RunID, job.StoreID, string(job.Resource), job.Action, job.Page, job.Attempt,
		statusPending, enqueuedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("enqueueing job: %w", err)
	}
	return nil
}

// Dequeue leases the oldest pending job, or the oldest job whose lease expired.
func (q *JobQueue) Dequeue(ctx context.Context) (*domain.SyncJob, error) {
	now := q.store.now()
	expired := now.Add(-q.store.leaseTimeout).UnixMilli()

	row := q.store.db.QueryRowContext(ctx, `
		UPDATE jobs SET status = ?, leased_at = ?
		WHERE seq = (
			SELECT seq FROM jobs
			WHERE status = ? OR (status = ? AND leased_at < ?)
			ORDER BY seq LIMIT 1
		)
		RETURNING id, run_id, store_id, resource, action, page, attempt, enqueued_at
	`, statusRunning, now.UnixMilli(), statusPending, statusRunning, expired)

	var job domain.SyncJob
	var resource string
	var enqueuedAt int64
	err := row.Scan(&job.ID, &job.RunID, &job.StoreID, &resource, &job.Action, &job.Page, &job.Attempt, &enqueuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dequeueing job: %w", err)
	}
	job.Resource = domain.ResourceType(resource)
	job.EnqueuedAt = time.UnixMilli(enqueuedAt).UTC()
	return &job, nil
}

// Complete acknowledges a running job.
func (q *JobQueue) Complete(ctx context.Context, jobID string) error {
	return q.finish(ctx, jobID, statusDone, "")
}

// Bury marks a running job permanently failed.
func (q *JobQueue) Bury(ctx context.Context, jobID, reason string) error {
	return q.finish(ctx, jobID, statusBuried, reason)
}

func (q *JobQueue) finish(ctx context.Context, jobID, status, reason string) error {
	res, err := q.store.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, reason = ?, leased_at = NULL
		WHERE id = ? AND status = ?
	`, status, nullString(reason), jobID, statusRunning)
	if err != nil {
		return fmt.Errorf("marking job %s %s: %w", jobID, status, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking job %s %s: %w", jobID, status, err)
	}
	if n == 0 {
		return fmt.Errorf("job %s is not running: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

// Stats returns queue depth by status.
func (q *JobQueue) Stats(ctx context.Context) (domain.QueueStats, error) {
	var stats domain.QueueStats

	rows, err := q.store.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return stats, fmt.Errorf("querying queue stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("scanning queue stats: %w", err)
		}
		switch status {
		case statusPending:
			stats.Pending = count
		case statusRunning:
			stats.Running = count
		case statusDone:
			stats.Done = count
		case statusBuried:
			stats.Buried = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating queue stats: %w", err)
	}
	return stats, nil
}

// BuriedReason returns the reason a job was buried.
func (q *JobQueue) BuriedReason(ctx context.Context, jobID string) (string, error) {
	var reason sql.NullString
	err := q.store.db.QueryRowContext(ctx,
		"SELECT reason FROM jobs WHERE id = ? AND status = ?", jobID, statusBuried).Scan(&reason)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying buried job: %w", err)
	}
	return reason.String, nil
}

// Purge deletes finished jobs enqueued before cutoff and returns how many
// were removed. Buried jobs are kept for inspection.
func (q *JobQueue) Purge(ctx context.Context, before time.Time) (int, error) {
	res, err := q.store.db.ExecContext(ctx,
		"DELETE FROM jobs WHERE status = ? AND enqueued_at < ?", statusDone, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging jobs: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
