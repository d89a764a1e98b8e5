package domain

import "github.com/shopspring/decimal"

// Customer is a shop customer.
type Customer struct {
	ID           string          `json:"id" validate:"required"`
	EmailAddress string          `json:"email_address" validate:"required,email"`
	OptInStatus  bool            `json:"opt_in_status"`
	Company      string          `json:"company,omitempty"`
	FirstName    string          `json:"first_name,omitempty"`
	LastName     string          `json:"last_name,omitempty"`
	OrdersCount  int             `json:"orders_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	Address      *Address        `json:"address,omitempty"`
}

// EntityID returns the customer identifier.
func (c *Customer) EntityID() string { return c.ID }

// Resource returns ResourceCustomers.
func (c *Customer) Resource() ResourceType { return ResourceCustomers }
