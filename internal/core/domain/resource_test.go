package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceType_IsValid(t *testing.T) {
	for _, r := range AllResources() {
		assert.True(t, r.IsValid(), r)
	}
	assert.False(t, ResourceType("").IsValid())
	assert.False(t, ResourceType("coupons").IsValid())
}

func TestResourceType_ActionRoundTrip(t *testing.T) {
	for _, r := range AllResources() {
		t.Run(r.String(), func(t *testing.T) {
			got, err := ResourceFromAction(r.Action())
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
	assert.Equal(t, "storesync_process_products", ResourceProducts.Action())
}

func TestResourceFromAction_Unknown(t *testing.T) {
	_, err := ResourceFromAction("storesync_process_coupons")
	assert.ErrorIs(t, err, ErrUnknownResource)

	_, err = ResourceFromAction("other_action")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestParseResourceType(t *testing.T) {
	r, err := ParseResourceType("orders")
	require.NoError(t, err)
	assert.Equal(t, ResourceOrders, r)

	_, err = ParseResourceType("nope")
	assert.ErrorIs(t, err, ErrUnknownResource)
}
