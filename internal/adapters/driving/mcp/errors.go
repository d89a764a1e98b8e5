// Package mcp provides an MCP (Model Context Protocol) server adapter for storesync.
// It lets AI assistants inspect sync progress and start syncs.
package mcp

import "errors"

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("mcp: sync orchestrator is required")
