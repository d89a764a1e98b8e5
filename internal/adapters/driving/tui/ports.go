// Package tui provides a live terminal dashboard for storesync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// Ports aggregates the driving ports the dashboard uses.
type Ports struct {
	// Sync reports progress and starts full syncs.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
