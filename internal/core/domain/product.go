package domain

import "github.com/shopspring/decimal"

// Product is a catalog product with at least one purchasable variant.
type Product struct {
	ID                 string           `json:"id" validate:"required"`
	Title              string           `json:"title" validate:"required"`
	Handle             string           `json:"handle,omitempty"`
	URL                string           `json:"url,omitempty"`
	Description        string           `json:"description,omitempty"`
	Type               string           `json:"type,omitempty"`
	Vendor             string           `json:"vendor,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	PublishedAtForeign string           `json:"published_at_foreign,omitempty"`
	Variants           []ProductVariant `json:"variants" validate:"required,min=1,dive"`
}

// EntityID returns the product identifier.
func (p *Product) EntityID() string { return p.ID }

// Resource returns ResourceProducts.
func (p *Product) Resource() ResourceType { return ResourceProducts }

// ProductVariant is one purchasable variation of a product.
type ProductVariant struct {
	ID                string          `json:"id" validate:"required"`
	Title             string          `json:"title" validate:"required"`
	URL               string          `json:"url,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	ImageURL          string          `json:"image_url,omitempty"`
	Backorders        string          `json:"backorders,omitempty"`
	Visibility        string          `json:"visibility,omitempty"`
}
