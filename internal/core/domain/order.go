package domain

import "github.com/shopspring/decimal"

// Order is a placed order, referencing products that must already exist remotely.
type Order struct {
	ID                 string          `json:"id" validate:"required"`
	Customer           Customer        `json:"customer"`
	CampaignID         string          `json:"campaign_id,omitempty"`
	FinancialStatus    string          `json:"financial_status,omitempty"`
	FulfillmentStatus  string          `json:"fulfillment_status,omitempty"`
	CurrencyCode       string          `json:"currency_code" validate:"required,len=3"`
	OrderTotal         decimal.Decimal `json:"order_total"`
	TaxTotal           decimal.Decimal `json:"tax_total"`
	ShippingTotal      decimal.Decimal `json:"shipping_total"`
	ProcessedAtForeign string          `json:"processed_at_foreign,omitempty"`
	UpdatedAtForeign   string          `json:"updated_at_foreign,omitempty"`
	CancelledAtForeign string          `json:"cancelled_at_foreign,omitempty"`
	ShippingAddress    *Address        `json:"shipping_address,omitempty"`
	BillingAddress     *Address        `json:"billing_address,omitempty"`
	Lines              []LineItem      `json:"lines" validate:"required,min=1,dive"`
}

// EntityID returns the order identifier.
func (o *Order) EntityID() string { return o.ID }

// Resource returns ResourceOrders.
func (o *Order) Resource() ResourceType { return ResourceOrders }

// LineItem is one product variant line of an order or cart.
type LineItem struct {
	ID               string          `json:"id" validate:"required"`
	ProductID        string          `json:"product_id" validate:"required"`
	ProductVariantID string          `json:"product_variant_id" validate:"required"`
	Quantity         int             `json:"quantity" validate:"min=1"`
	Price            decimal.Decimal `json:"price"`
}
