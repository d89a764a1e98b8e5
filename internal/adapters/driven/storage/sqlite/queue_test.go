package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

func TestJobQueue_FIFO(t *testing.T) {
	q := setupTestStore(t).JobQueue()
	ctx := context.Background()

	first := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 2)
	first.Attempt = 1
	second := domain.NewSyncJob("s1", domain.ResourceCarts, "run-1", 1)
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.RunID, got.RunID)
	assert.Equal(t, first.StoreID, got.StoreID)
	assert.Equal(t, domain.ResourceProducts, got.Resource)
	assert.Equal(t, first.Action, got.Action)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 1, got.Attempt)
	assert.WithinDuration(t, first.EnqueuedAt, got.EnqueuedAt, time.Millisecond)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, domain.ErrQueueEmpty)
}

func TestJobQueue_CompleteBuryStats(t *testing.T) {
	q := setupTestStore(t).JobQueue()
	ctx := context.Background()

	a := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 1)
	b := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 2)
	c := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 3)
	for _, j := range []domain.SyncJob{a, b, c} {
		require.NoError(t, q.Enqueue(ctx, j))
	}
	_, _ = q.Dequeue(ctx)
	_, _ = q.Dequeue(ctx)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStats{Pending: 1, Running: 2}, stats)

	require.NoError(t, q.Complete(ctx, a.ID))
	require.NoError(t, q.Bury(ctx, b.ID, "job retry budget exhausted"))

	stats, _ = q.Stats(ctx)
	assert.Equal(t, domain.QueueStats{Pending: 1, Done: 1, Buried: 1}, stats)

	reason, err := q.BuriedReason(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "job retry budget exhausted", reason)

	// Only running jobs can be acknowledged.
	assert.ErrorIs(t, q.Complete(ctx, a.ID), domain.ErrNotFound)
	assert.ErrorIs(t, q.Complete(ctx, c.ID), domain.ErrNotFound)
	assert.ErrorIs(t, q.Bury(ctx, "missing", "x"), domain.ErrNotFound)
	_, err = q.BuriedReason(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_ExpiredLeaseRedelivered(t *testing.T) {
	store := setupTestStore(t)
	store.SetLeaseTimeout(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	q := store.JobQueue()
	ctx := context.Background()

	job := domain.NewSyncJob("s1", domain.ResourceOrders, "run-1", 1)
	require.NoError(t, q.Enqueue(ctx, job))

	_, err := q.Dequeue(ctx)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, domain.ErrQueueEmpty)

	now = now.Add(2 * time.Minute)
	again, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, again.ID)

	require.NoError(t, q.Complete(ctx, job.ID))
}

func TestJobQueue_ReenqueueResetsJob(t *testing.T) {
	q := setupTestStore(t).JobQueue()
	ctx := context.Background()

	job := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 1)
	require.NoError(t, q.Enqueue(ctx, job))
	_, _ = q.Dequeue(ctx)
	require.NoError(t, q.Complete(ctx, job.ID))

	require.NoError(t, q.Enqueue(ctx, job))
	stats, _ := q.Stats(ctx)
	assert.Equal(t, domain.QueueStats{Pending: 1}, stats)
}

func TestJobQueue_ConcurrentDequeue(t *testing.T) {
	q := setupTestStore(t).JobQueue()
	ctx := context.Background()

	const n = 20
	for i := range n {
		require.NoError(t, q.Enqueue(ctx, domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", i+1)))
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, err := q.Dequeue(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[job.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
}

func TestJobQueue_Purge(t *testing.T) {
	q := setupTestStore(t).JobQueue()
	ctx := context.Background()

	done := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 1)
	pending := domain.NewSyncJob("s1", domain.ResourceProducts, "run-1", 2)
	require.NoError(t, q.Enqueue(ctx, done))
	_, _ = q.Dequeue(ctx)
	require.NoError(t, q.Complete(ctx, done.ID))
	require.NoError(t, q.Enqueue(ctx, pending))

	n, err := q.Purge(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, _ := q.Stats(ctx)
	assert.Equal(t, domain.QueueStats{Pending: 1}, stats)
}
