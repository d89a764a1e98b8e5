package marketing

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// CartsResponse is one page of remote carts.
type CartsResponse struct {
	StoreID    string        `json:"store_id"`
	Carts      []domain.Cart `json:"carts"`
	TotalItems int           `json:"total_items"`
}

func cartPath(storeID, cartID string) string {
	return storePath(storeID) + "/carts/" + cartID
}

// Carts returns page (0-based) of remote carts, count at a time.
func (c *Client) Carts(ctx context.Context, storeID string, page, count int) (*CartsResponse, error) {
	var resp CartsResponse
	if err := c.get(ctx, storePath(storeID)+"/carts", pageQuery(page, count), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCart returns a remote cart, or nil when it does not exist.
func (c *Client) GetCart(ctx context.Context, storeID, cartID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.get(ctx, cartPath(storeID, cartID), nil, &cart); err != nil {
		return nil, swallowBusiness(err)
	}
	return &cart, nil
}

// AddCart creates a cart.
func (c *Client) AddCart(ctx context.Context, storeID string, cart *domain.Cart) (*domain.Cart, error) {
	if err := c.validate(domain.ResourceCarts, cart.ID, cart); err != nil {
		return nil, err
	}
	var out domain.Cart
	if err := c.post(ctx, storePath(storeID)+"/carts", cart, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCart updates an open cart. The cart id and customer cannot change.
func (c *Client) UpdateCart(ctx context.Context, storeID string, cart *domain.Cart) (*domain.Cart, error) {
	if err := c.validate(domain.ResourceCarts, cart.ID, cart); err != nil {
		return nil, err
	}
	payload, err := cart.UpdatePayload()
	if err != nil {
		return nil, err
	}
	var out domain.Cart
	if err := c.patch(ctx, cartPath(storeID, cart.ID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCart removes a cart, reporting false when the API refused.
func (c *Client) DeleteCart(ctx context.Context, storeID, cartID string) (bool, error) {
	return c.deleted(ctx, cartPath(storeID, cartID))
}
