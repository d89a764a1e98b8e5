package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

func TestSyncRunStore_SaveGet(t *testing.T) {
	runs := setupTestStore(t).SyncRunStore()
	ctx := context.Background()

	missing, err := runs.Get(ctx, "s1", domain.ResourceProducts)
	require.NoError(t, err)
	assert.Nil(t, missing)

	started := time.Date(2026, 5, 4, 10, 0, 0, 123, time.UTC)
	state := domain.SyncRunState{
		StoreID:   "s1",
		Resource:  domain.ResourceProducts,
		RunID:     "run-1",
		StartedAt: started,
		PagesDone: 2,
		Succeeded: 19,
		Failed:    1,
	}
	require.NoError(t, runs.Save(ctx, state))

	got, err := runs.Get(ctx, "s1", domain.ResourceProducts)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.StartedAt.Equal(started))
	assert.True(t, got.CompletedAt.IsZero())
	assert.False(t, got.IsComplete("run-1"))
	assert.Equal(t, 19, got.Succeeded)

	got.PagesDone = 3
	got.CompletedAt = started.Add(time.Minute)
	got.CompletedRunID = "run-1"
	require.NoError(t, runs.Save(ctx, *got))

	again, err := runs.Get(ctx, "s1", domain.ResourceProducts)
	require.NoError(t, err)
	assert.Equal(t, 3, again.PagesDone)
	assert.True(t, again.IsComplete("run-1"))
}

func TestSyncRunStore_ListDelete(t *testing.T) {
	runs := setupTestStore(t).SyncRunStore()
	ctx := context.Background()

	for _, r := range []domain.ResourceType{domain.ResourceProducts, domain.ResourceCarts, domain.ResourceOrders} {
		require.NoError(t, runs.Save(ctx, domain.SyncRunState{StoreID: "s1", Resource: r}))
	}
	require.NoError(t, runs.Save(ctx, domain.SyncRunState{StoreID: "s2", Resource: domain.ResourceProducts}))

	list, err := runs.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.ResourceCarts, list[0].Resource)
	assert.Equal(t, domain.ResourceOrders, list[1].Resource)
	assert.Equal(t, domain.ResourceProducts, list[2].Resource)

	require.NoError(t, runs.Delete(ctx, "s1", domain.ResourceOrders))
	list, _ = runs.List(ctx, "s1")
	assert.Len(t, list, 2)

	empty, err := runs.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
