package marketing

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// ProductsResponse is one page of remote products.
type ProductsResponse struct {
	StoreID    string           `json:"store_id"`
	Products   []domain.Product `json:"products"`
	TotalItems int              `json:"total_items"`
}

func productPath(storeID, productID string) string {
	return storePath(storeID) + "/products/" + productID
}

// GetStoreProduct returns a remote product, or nil when it does not exist.
func (c *Client) GetStoreProduct(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, productPath(storeID, productID), nil, &p); err != nil {
		return nil, swallowBusiness(err)
	}
	return &p, nil
}

// Products returns page (0-based) of remote products, count at a time.
func (c *Client) Products(ctx context.Context, storeID string, page, count int) (*ProductsResponse, error) {
	var resp ProductsResponse
	if err := c.get(ctx, storePath(storeID)+"/products", pageQuery(page, count), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddStoreProduct creates a product.
func (c *Client) AddStoreProduct(ctx context.Context, storeID string, product *domain.Product) (*domain.Product, error) {
	if err := c.validate(domain.ResourceProducts, product.ID, product); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := c.post(ctx, storePath(storeID)+"/products", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStoreProduct removes a product, reporting false when the API refused.
func (c *Client) DeleteStoreProduct(ctx context.Context, storeID, productID string) (bool, error) {
	return c.deleted(ctx, productPath(storeID, productID))
}
