package marketing

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

func customerPath(storeID, customerID string) string {
	return storePath(storeID) + "/customers/" + customerID
}

// GetCustomer returns a remote customer, or nil when it does not exist.
func (c *Client) GetCustomer(ctx context.Context, storeID, customerID string) (*domain.Customer, error) {
	var cu domain.Customer
	if err := c.get(ctx, customerPath(storeID, customerID), nil, &cu); err != nil {
		return nil, swallowBusiness(err)
	}
	return &cu, nil
}

// AddCustomer creates a customer.
func (c *Client) AddCustomer(ctx context.Context, storeID string, customer *domain.Customer) (*domain.Customer, error) {
	if err := c.validate(domain.ResourceCustomers, customer.ID, customer); err != nil {
		return nil, err
	}
	var out domain.Customer
	if err := c.post(ctx, storePath(storeID)+"/customers", customer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer updates an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, storeID string, customer *domain.Customer) (*domain.Customer, error) {
	if err := c.validate(domain.ResourceCustomers, customer.ID, customer); err != nil {
		return nil, err
	}
	var out domain.Customer
	if err := c.patch(ctx, customerPath(storeID, customer.ID), customer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomer removes a customer, reporting false when the API refused.
func (c *Client) DeleteCustomer(ctx context.Context, storeID, customerID string) (bool, error) {
	return c.deleted(ctx, customerPath(storeID, customerID))
}
