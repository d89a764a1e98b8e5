// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - JobQueue: durable FIFO of sync jobs with lease-based redelivery
//   - SyncRunStore: per-resource sync progress
//   - CatalogStore: local catalog snapshot the sync stages page through
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.storesync/data/storesync.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Dequeue leases a job in a single statement so
// concurrent workers never receive the same job.
package sqlite
