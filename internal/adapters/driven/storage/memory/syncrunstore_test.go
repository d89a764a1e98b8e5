package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

func TestSyncRunStore_SaveGet(t *testing.T) {
	store := NewSyncRunStore()
	ctx := context.Background()

	missing, err := store.Get(ctx, "s1", domain.ResourceProducts)
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.Now()
	state := domain.SyncRunState{StoreID: "s1", Resource: domain.ResourceProducts, RunID: "r1", PagesDone: 2, StartedAt: now}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, "s1", domain.ResourceProducts)
	require.NoError(t, err)
	assert.Equal(t, state, *got)

	// Mutating the returned copy does not change the stored state.
	got.PagesDone = 99
	again, _ := store.Get(ctx, "s1", domain.ResourceProducts)
	assert.Equal(t, 2, again.PagesDone)
}

func TestSyncRunStore_ListAndDelete(t *testing.T) {
	store := NewSyncRunStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.SyncRunState{StoreID: "s1", Resource: domain.ResourceProducts}))
	require.NoError(t, store.Save(ctx, domain.SyncRunState{StoreID: "s1", Resource: domain.ResourceCarts}))
	require.NoError(t, store.Save(ctx, domain.SyncRunState{StoreID: "s2", Resource: domain.ResourceOrders}))

	list, err := store.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.ResourceCarts, list[0].Resource)
	assert.Equal(t, domain.ResourceProducts, list[1].Resource)

	require.NoError(t, store.Delete(ctx, "s1", domain.ResourceCarts))
	list, _ = store.List(ctx, "s1")
	assert.Len(t, list, 1)
}
