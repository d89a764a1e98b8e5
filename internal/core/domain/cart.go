package domain

import "github.com/shopspring/decimal"

// Cart is an open (possibly abandoned) shopping cart.
type Cart struct {
	ID           string          `json:"id" validate:"required"`
	Customer     Customer        `json:"customer"`
	CampaignID   string          `json:"campaign_id,omitempty"`
	CheckoutURL  string          `json:"checkout_url,omitempty"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	OrderTotal   decimal.Decimal `json:"order_total"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	Lines        []LineItem      `json:"lines" validate:"required,min=1,dive"`
}

// EntityID returns the cart identifier.
func (c *Cart) EntityID() string { return c.ID }

// Resource returns ResourceCarts.
func (c *Cart) Resource() ResourceType { return ResourceCarts }

// UpdatePayload returns the cart payload accepted by partial updates.
// The remote API rejects changes to the cart id and its customer.
func (c *Cart) UpdatePayload() (map[string]any, error) {
	m, err := ToMap(c)
	if err != nil {
		return nil, err
	}
	delete(m, "id")
	delete(m, "customer")
	return m, nil
}
