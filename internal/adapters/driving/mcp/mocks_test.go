package mcp

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	jobs      []domain.SyncJob
	err       error
	status    driving.SyncStatus
	statusErr error
	lastOpts  driving.SyncOptions
	calls     int
}

func (m *mockSyncOrchestrator) StartFullSync(_ context.Context, opts driving.SyncOptions) ([]domain.SyncJob, error) {
	m.calls++
	m.lastOpts = opts
	return m.jobs, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	s := m.status
	return &s, nil
}
