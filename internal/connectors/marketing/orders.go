package marketing

import (
	"context"
	"time"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// OrdersResponse is one page of remote orders.
type OrdersResponse struct {
	StoreID    string         `json:"store_id"`
	Orders     []domain.Order `json:"orders"`
	TotalItems int            `json:"total_items"`
}

// OrdersQuery narrows an orders listing.
type OrdersQuery struct {
	Page       int
	Count      int
	Since      time.Time
	CampaignID string
}

func orderPath(storeID, orderID string) string {
	return storePath(storeID) + "/orders/" + orderID
}

// Orders returns one page of remote orders.
func (c *Client) Orders(ctx context.Context, storeID string, q OrdersQuery) (*OrdersResponse, error) {
	query := pageQuery(q.Page, q.Count)
	if !q.Since.IsZero() {
		query.Set("since", q.Since.Format(time.DateTime))
	}
	if q.CampaignID != "" {
		query.Set("cid", q.CampaignID)
	}

	var resp OrdersResponse
	if err := c.get(ctx, storePath(storeID)+"/orders", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStoreOrder returns a remote order, or nil when it does not exist.
func (c *Client) GetStoreOrder(ctx context.Context, storeID, orderID string) (*domain.Order, error) {
	var o domain.Order
	if err := c.get(ctx, orderPath(storeID, orderID), nil, &o); err != nil {
		return nil, swallowBusiness(err)
	}
	return &o, nil
}

// AddStoreOrder creates an order. Its products must already exist remotely.
func (c *Client) AddStoreOrder(ctx context.Context, storeID string, order *domain.Order) (*domain.Order, error) {
	if err := c.validate(domain.ResourceOrders, order.ID, order); err != nil {
		return nil, err
	}
	var out domain.Order
	if err := c.post(ctx, storePath(storeID)+"/orders", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStoreOrder updates an existing order.
func (c *Client) UpdateStoreOrder(ctx context.Context, storeID string, order *domain.Order) (*domain.Order, error) {
	if err := c.validate(domain.ResourceOrders, order.ID, order); err != nil {
		return nil, err
	}
	var out domain.Order
	if err := c.patch(ctx, orderPath(storeID, order.ID), order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStoreOrder removes an order, reporting false when the API refused.
func (c *Client) DeleteStoreOrder(ctx context.Context, storeID, orderID string) (bool, error) {
	return c.deleted(ctx, orderPath(storeID, orderID))
}
