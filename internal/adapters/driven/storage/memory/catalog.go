package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.CatalogStore = (*Catalog)(nil)

type catalogKey struct {
	storeID  string
	resource domain.ResourceType
}

// Catalog is an in-memory implementation of driven.CatalogStore.
// Entities are paged in ascending ID order.
type Catalog struct {
	mu       sync.RWMutex
	entities map[catalogKey]map[string]domain.Entity
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entities: make(map[catalogKey]map[string]domain.Entity),
	}
}

// Put inserts or replaces an entity. Entities without an id are rejected.
func (c *Catalog) Put(_ context.Context, storeID string, entity domain.Entity) error {
	if err := domain.CheckEntity(entity); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := catalogKey{storeID, entity.Resource()}
	if c.entities[key] == nil {
		c.entities[key] = make(map[string]domain.Entity)
	}
	c.entities[key][entity.EntityID()] = entity
	return nil
}

// Delete removes an entity.
func (c *Catalog) Delete(_ context.Context, storeID string, resource domain.ResourceType, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entities[catalogKey{storeID, resource}], id)
	return nil
}

// Page returns one page of a resource.
func (c *Catalog) Page(_ context.Context, storeID string, resource domain.ResourceType, page, perPage int) (domain.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := c.entities[catalogKey{storeID, resource}]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := domain.Page{Number: page, PerPage: perPage, Total: len(ids)}
	if page < 1 || perPage < 1 {
		return result, nil
	}
	start := (page - 1) * perPage
	if start >= len(ids) {
		return result, nil
	}
	end := min(start+perPage, len(ids))
	for _, id := range ids[start:end] {
		result.Items = append(result.Items, set[id])
	}
	return result, nil
}
