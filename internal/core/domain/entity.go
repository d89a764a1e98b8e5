package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// The remote API expects monetary amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Entity is a local catalog record that maps onto one remote resource.
// The JSON encoding of an entity is its remote payload; decoding a remote
// payload into the same type hydrates it.
type Entity interface {
	// EntityID returns the stable identifier used in remote paths.
	EntityID() string

	// Resource returns the resource type the entity belongs to.
	Resource() ResourceType
}

// CheckEntity rejects nil entities, including typed nil pointers, and
// entities without an identifier. Members are identified by email address.
func CheckEntity(entity Entity) error {
	var missing bool
	switch e := entity.(type) {
	case nil:
		missing = true
	case *Product:
		missing = e == nil || e.ID == ""
	case *Order:
		missing = e == nil || e.ID == ""
	case *Customer:
		missing = e == nil || e.ID == ""
	case *Cart:
		missing = e == nil || e.ID == ""
	case *ListMember:
		missing = e == nil || e.EmailAddress == ""
	default:
		missing = entity.EntityID() == ""
	}
	if missing {
		return fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}
	return nil
}

// NewEntity returns an empty entity of the given resource type.
func NewEntity(resource ResourceType) (Entity, error) {
	switch resource {
	case ResourceProducts:
		return &Product{}, nil
	case ResourceOrders:
		return &Order{}, nil
	case ResourceCustomers:
		return &Customer{}, nil
	case ResourceCarts:
		return &Cart{}, nil
	case ResourceMembers:
		return &ListMember{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
}

// DecodeEntity hydrates an entity of the given resource type from its payload.
func DecodeEntity(resource ResourceType, data []byte) (Entity, error) {
	entity, err := NewEntity(resource)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", resource, err)
	}
	return entity, nil
}

// ToMap renders any payload as a generic map, dropping nil and empty-string values.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return RemoveEmpty(m), nil
}

// RemoveEmpty deletes keys whose value is nil or the empty string.
func RemoveEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	for k, v := range m {
		if v == nil {
			delete(m, k)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			delete(m, k)
		}
	}
	return m
}
