package marketing

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// resourceStores labels store validation failures.
const resourceStores domain.ResourceType = "stores"

type storesResponse struct {
	Stores     []domain.Store `json:"stores"`
	TotalItems int            `json:"total_items"`
}

func storePath(storeID string) string {
	return "ecommerce/stores/" + storeID
}

// GetStore returns a remote store, or nil when it does not exist or the
// response lacks an id or name.
func (c *Client) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	var s domain.Store
	if err := c.get(ctx, storePath(storeID), nil, &s); err != nil {
		return nil, swallowBusiness(err)
	}
	if s.ID == "" || s.Name == "" {
		return nil, nil
	}
	return &s, nil
}

// Stores returns every remote store. A business rejection yields an empty list.
func (c *Client) Stores(ctx context.Context) ([]domain.Store, error) {
	var resp storesResponse
	if err := c.get(ctx, "ecommerce/stores", nil, &resp); err != nil {
		return nil, swallowBusiness(err)
	}
	return resp.Stores, nil
}

// AddStore registers a store.
func (c *Client) AddStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if err := c.validate(resourceStores, store.ID, store); err != nil {
		return nil, err
	}
	var out domain.Store
	if err := c.post(ctx, "ecommerce/stores", store, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStore replaces the mutable fields of a store.
func (c *Client) UpdateStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if err := c.validate(resourceStores, store.ID, store); err != nil {
		return nil, err
	}
	var out domain.Store
	if err := c.patch(ctx, storePath(store.ID), store, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStore removes a store and all its ecommerce data.
func (c *Client) DeleteStore(ctx context.Context, storeID string) (bool, error) {
	return c.deleted(ctx, storePath(storeID))
}
