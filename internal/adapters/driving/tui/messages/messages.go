// Package messages defines Bubbletea message types for the dashboard.
package messages

import (
	"time"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// Tick asks the dashboard to refresh.
type Tick struct {
	At time.Time
}

// StatusLoaded carries sync progress back to the model.
type StatusLoaded struct {
	Status *driving.SyncStatus
	Err    error
}

// SyncStarted reports the outcome of a full sync request.
type SyncStarted struct {
	Jobs  []domain.SyncJob
	Force bool
	Err   error
}
