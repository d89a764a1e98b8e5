// Package domain defines the core business entities for storesync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Credential: API key and region used to reach the marketing API
//   - Store, Product, Order, Customer, Cart, ListMember: catalog entities
//   - SyncJob: one page of one resource for one store, as carried by the queue
//   - SyncRunState: persisted progress and completion of a resource sync
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, value-type libraries (shopspring/decimal, google/uuid)
//   - Cannot Import: Any internal/ package
package domain
