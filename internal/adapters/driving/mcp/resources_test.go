package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()
	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: statusURI}}

	t.Run("returns status as json", func(t *testing.T) {
		server := newTestServer(t, &mockSyncOrchestrator{status: driving.SyncStatus{
			StoreID: "store-1",
			Resources: []domain.SyncRunState{
				{Resource: domain.ResourceCarts, RunID: "run-1", PagesDone: 2, Succeeded: 7},
			},
			Queue: domain.QueueStats{Pending: 5},
		}})

		result, err := server.handleStatusResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, statusURI, result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var out StatusOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &out))
		assert.Equal(t, "store-1", out.StoreID)
		require.Len(t, out.Resources, 1)
		assert.Equal(t, "carts", out.Resources[0].Resource)
		assert.Equal(t, 7, out.Resources[0].Succeeded)
		assert.Equal(t, 5, out.Queue.Pending)
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("boom")
		server := newTestServer(t, &mockSyncOrchestrator{statusErr: boom})

		_, err := server.handleStatusResource(ctx, req)

		assert.ErrorIs(t, err, boom)
	})
}
