package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *Order {
	return &Order{
		ID:           "order-1",
		Customer:     Customer{ID: "cust-1", EmailAddress: "a@example.com", TotalSpent: decimal.RequireFromString("10.50")},
		CurrencyCode: "USD",
		OrderTotal:   decimal.RequireFromString("10.50"),
		TaxTotal:     decimal.Zero,
		Lines: []LineItem{
			{ID: "l1", ProductID: "p1", ProductVariantID: "v1", Quantity: 2, Price: decimal.RequireFromString("5.25")},
		},
	}
}

func TestEntity_RoundTrip(t *testing.T) {
	entities := []Entity{
		&Product{ID: "p1", Title: "Shirt", Variants: []ProductVariant{
			{ID: "v1", Title: "Small", Price: decimal.RequireFromString("19.99"), InventoryQuantity: 4},
		}},
		sampleOrder(),
		&Customer{ID: "c1", EmailAddress: "c@example.com", OptInStatus: true, TotalSpent: decimal.RequireFromString("3")},
		&Cart{ID: "cart-1", CurrencyCode: "EUR", Customer: Customer{ID: "c1", EmailAddress: "c@example.com"}},
		&ListMember{EmailAddress: "m@example.com", Status: MemberSubscribed},
	}

	for _, original := range entities {
		t.Run(string(original.Resource()), func(t *testing.T) {
			data, err := json.Marshal(original)
			require.NoError(t, err)

			decoded, err := DecodeEntity(original.Resource(), data)
			require.NoError(t, err)

			assert.Equal(t, original.EntityID(), decoded.EntityID())
			again, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestEntity_MoneyIsNumeric(t *testing.T) {
	data, err := json.Marshal(sampleOrder())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.InDelta(t, 10.5, raw["order_total"], 0.0001)
}

func TestCheckEntity(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		valid  bool
	}{
		{"nil interface", nil, false},
		{"typed nil product", (*Product)(nil), false},
		{"typed nil order", (*Order)(nil), false},
		{"typed nil customer", (*Customer)(nil), false},
		{"typed nil cart", (*Cart)(nil), false},
		{"typed nil member", (*ListMember)(nil), false},
		{"product without id", &Product{Title: "x"}, false},
		{"member without email", &ListMember{Status: MemberSubscribed}, false},
		{"product", &Product{ID: "p1"}, true},
		{"member", &ListMember{EmailAddress: "a@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEntity(tt.entity)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestDecodeEntity_Unknown(t *testing.T) {
	_, err := DecodeEntity("coupons", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownResource)

	_, err = DecodeEntity(ResourceProducts, []byte(`{`))
	assert.Error(t, err)
}

func TestRemoveEmpty(t *testing.T) {
	m := RemoveEmpty(map[string]any{"a": "", "b": nil, "c": "x", "d": 0})
	assert.Equal(t, map[string]any{"c": "x", "d": 0}, m)
	assert.Empty(t, RemoveEmpty(nil))
}

func TestCart_UpdatePayload(t *testing.T) {
	cart := &Cart{ID: "cart-1", CurrencyCode: "USD", Customer: Customer{ID: "c1"}, CheckoutURL: ""}

	m, err := cart.UpdatePayload()
	require.NoError(t, err)

	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "customer")
	assert.NotContains(t, m, "checkout_url")
	assert.Equal(t, "USD", m["currency_code"])
}
