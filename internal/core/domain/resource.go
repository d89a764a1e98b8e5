package domain

import "fmt"

// ResourceType identifies one kind of catalog entity and the sync stage handling it.
type ResourceType string

// Resource types known to the sync pipeline.
const (
	ResourceProducts  ResourceType = "products"
	ResourceOrders    ResourceType = "orders"
	ResourceCustomers ResourceType = "customers"
	ResourceCarts     ResourceType = "carts"
	ResourceMembers   ResourceType = "members"
)

// actionPrefix namespaces queue action names.
const actionPrefix = "storesync_process_"

// AllResources returns every resource type in chain-friendly order.
func AllResources() []ResourceType {
	return []ResourceType{
		ResourceProducts,
		ResourceOrders,
		ResourceCustomers,
		ResourceCarts,
		ResourceMembers,
	}
}

// IsValid returns true if the resource type is recognised.
func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceProducts, ResourceOrders, ResourceCustomers, ResourceCarts, ResourceMembers:
		return true
	default:
		return false
	}
}

// Action returns the queue dispatch name for the resource's stage.
func (r ResourceType) Action() string {
	return actionPrefix + string(r)
}

// String returns the string representation.
func (r ResourceType) String() string {
	return string(r)
}

// ParseResourceType converts user input into a ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	r := ResourceType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}
	return r, nil
}

// ResourceFromAction maps a queue action name back to its resource type.
func ResourceFromAction(action string) (ResourceType, error) {
	if len(action) <= len(actionPrefix) || action[:len(actionPrefix)] != actionPrefix {
		return "", fmt.Errorf("%w: action %q", ErrUnknownResource, action)
	}
	return ParseResourceType(action[len(actionPrefix):])
}
