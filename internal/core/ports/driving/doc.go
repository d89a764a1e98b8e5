// Package driving defines the interfaces the CLI, dashboard and MCP server
// use to start syncs, drain the job queue and manage settings. These are the
// "driving" ports in hexagonal architecture terminology.
//
// Implementations of these interfaces live in internal/core/services.
package driving
