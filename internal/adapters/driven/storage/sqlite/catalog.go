package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore. Entities are stored as JSON
// and paged in ascending entity ID order.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// Put inserts or replaces an entity.
func (c *catalogStore) Put(ctx context.Context, storeID string, entity domain.Entity) error {
	if err := domain.CheckEntity(entity); err != nil {
		return err
	}
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshalling %s %s: %w", entity.Resource(), entity.EntityID(), err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO catalog (store_id, resource, entity_id, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(store_id, resource, entity_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, storeID, string(entity.Resource()), entity.EntityID(), string(payload), formatNullableTime(c.store.now()))
	if err != nil {
		return fmt.Errorf("saving catalog entity: %w", err)
	}
	return nil
}

// Delete removes an entity.
func (c *catalogStore) Delete(ctx context.Context, storeID string, resource domain.ResourceType, id string) error {
	_, err := c.store.db.ExecContext(ctx,
		"DELETE FROM catalog WHERE store_id = ? AND resource = ? AND entity_id = ?",
		storeID, string(resource), id)
	if err != nil {
		return fmt.Errorf("deleting catalog entity: %w", err)
	}
	return nil
}

// Page returns one page of a resource.
func (c *catalogStore) Page(ctx context.Context, storeID string, resource domain.ResourceType, page, perPage int) (domain.Page, error) {
	result := domain.Page{Number: page, PerPage: perPage}

	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM catalog WHERE store_id = ? AND resource = ?",
		storeID, string(resource)).Scan(&result.Total)
	if err != nil {
		return result, fmt.Errorf("counting catalog: %w", err)
	}
	if page < 1 || perPage < 1 {
		return result, nil
	}

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT payload FROM catalog
		WHERE store_id = ? AND resource = ?
		ORDER BY entity_id
		LIMIT ? OFFSET ?
	`, storeID, string(resource), perPage, (page-1)*perPage)
	if err != nil {
		return result, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return result, fmt.Errorf("scanning catalog: %w", err)
		}
		entity, err := domain.DecodeEntity(resource, []byte(payload))
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, entity)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("iterating catalog: %w", err)
	}
	return result, nil
}
