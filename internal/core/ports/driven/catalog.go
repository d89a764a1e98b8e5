package driven

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// CatalogSource gives read-only, paged access to the local commerce catalog.
type CatalogSource interface {
	// Page returns page (1-based) of resource for storeID, perPage items at a time.
	// The returned Page carries the resource total so callers can tell
	// whether more pages remain. An out-of-range page returns no items.
	Page(ctx context.Context, storeID string, resource domain.ResourceType, page, perPage int) (domain.Page, error)
}

// CatalogStore is a CatalogSource that can also be written to.
type CatalogStore interface {
	CatalogSource

	// Put inserts or replaces an entity for storeID.
	Put(ctx context.Context, storeID string, entity domain.Entity) error

	// Delete removes an entity. Deleting a missing entity is not an error.
	Delete(ctx context.Context, storeID string, resource domain.ResourceType, id string) error
}
