// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MarketingAPI: The remote marketing API (connectors/marketing)
//   - JobQueue: Durable at-least-once job queue (SQLite, Redis or memory)
//   - CatalogSource: Read-only paged access to the local commerce catalog
//   - SyncRunStore: Sync run progress and completion persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - CatalogStore: Write access to the catalog, used by imports and tests
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
