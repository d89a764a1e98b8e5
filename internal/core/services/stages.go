package services

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// ProductsStage replaces remote products: each product is deleted and re-added
// so variant changes are picked up. Completing a products run starts orders.
type ProductsStage struct {
	api   driven.MarketingAPI
	chain *Chain
}

// NewProductsStage creates the products stage.
func NewProductsStage(api driven.MarketingAPI, chain *Chain) *ProductsStage {
	return &ProductsStage{api: api, chain: chain}
}

// Resource returns ResourceProducts.
func (s *ProductsStage) Resource() domain.ResourceType { return domain.ResourceProducts }

// Action returns the products queue action.
func (s *ProductsStage) Action() string { return domain.ResourceProducts.Action() }

// Iterate deletes then adds one product.
func (s *ProductsStage) Iterate(ctx context.Context, storeID string, entity domain.Entity) error {
	product, ok := entity.(*domain.Product)
	if !ok {
		return unexpectedEntity(s.Resource(), entity)
	}
	if _, err := s.api.DeleteStoreProduct(ctx, storeID, product.ID); err != nil {
		return err
	}
	_, err := s.api.AddStoreProduct(ctx, storeID, product)
	return err
}

// Complete enqueues the stages that depend on products.
func (s *ProductsStage) Complete(ctx context.Context, job domain.SyncJob) error {
	_, err := s.chain.Advance(ctx, job)
	return err
}

// OrdersStage upserts orders. Orders reference products, so it runs after them.
type OrdersStage struct {
	api driven.MarketingAPI
}

// NewOrdersStage creates the orders stage.
func NewOrdersStage(api driven.MarketingAPI) *OrdersStage {
	return &OrdersStage{api: api}
}

// Resource returns ResourceOrders.
func (s *OrdersStage) Resource() domain.ResourceType { return domain.ResourceOrders }

// Action returns the orders queue action.
func (s *OrdersStage) Action() string { return domain.ResourceOrders.Action() }

// Iterate updates the order when it exists remotely and adds it otherwise.
func (s *OrdersStage) Iterate(ctx context.Context, storeID string, entity domain.Entity) error {
	order, ok := entity.(*domain.Order)
	if !ok {
		return unexpectedEntity(s.Resource(), entity)
	}
	existing, err := s.api.GetStoreOrder(ctx, storeID, order.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = s.api.UpdateStoreOrder(ctx, storeID, order)
	} else {
		_, err = s.api.AddStoreOrder(ctx, storeID, order)
	}
	return err
}

// Complete does nothing; orders end their chain.
func (s *OrdersStage) Complete(context.Context, domain.SyncJob) error { return nil }

// CustomersStage upserts customers.
type CustomersStage struct {
	api driven.MarketingAPI
}

// NewCustomersStage creates the customers stage.
func NewCustomersStage(api driven.MarketingAPI) *CustomersStage {
	return &CustomersStage{api: api}
}

// Resource returns ResourceCustomers.
func (s *CustomersStage) Resource() domain.ResourceType { return domain.ResourceCustomers }

// Action returns the customers queue action.
func (s *CustomersStage) Action() string { return domain.ResourceCustomers.Action() }

// Iterate updates the customer when it exists remotely and adds it otherwise.
func (s *CustomersStage) Iterate(ctx context.Context, storeID string, entity domain.Entity) error {
	customer, ok := entity.(*domain.Customer)
	if !ok {
		return unexpectedEntity(s.Resource(), entity)
	}
	existing, err := s.api.GetCustomer(ctx, storeID, customer.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = s.api.UpdateCustomer(ctx, storeID, customer)
	} else {
		_, err = s.api.AddCustomer(ctx, storeID, customer)
	}
	return err
}

// Complete does nothing.
func (s *CustomersStage) Complete(context.Context, domain.SyncJob) error { return nil }

// CartsStage upserts open carts.
type CartsStage struct {
	api driven.MarketingAPI
}

// NewCartsStage creates the carts stage.
func NewCartsStage(api driven.MarketingAPI) *CartsStage {
	return &CartsStage{api: api}
}

// Resource returns ResourceCarts.
func (s *CartsStage) Resource() domain.ResourceType { return domain.ResourceCarts }

// Action returns the carts queue action.
func (s *CartsStage) Action() string { return domain.ResourceCarts.Action() }

// Iterate updates the cart when it exists remotely and adds it otherwise.
func (s *CartsStage) Iterate(ctx context.Context, storeID string, entity domain.Entity) error {
	cart, ok := entity.(*domain.Cart)
	if !ok {
		return unexpectedEntity(s.Resource(), entity)
	}
	existing, err := s.api.GetCart(ctx, storeID, cart.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = s.api.UpdateCart(ctx, storeID, cart)
	} else {
		_, err = s.api.AddCart(ctx, storeID, cart)
	}
	return err
}

// Complete does nothing.
func (s *CartsStage) Complete(context.Context, domain.SyncJob) error { return nil }

// MembersStage upserts subscribers of the store's list by member hash.
type MembersStage struct {
	api    driven.MarketingAPI
	listID string
}

// NewMembersStage creates the members stage for listID.
func NewMembersStage(api driven.MarketingAPI, listID string) *MembersStage {
	return &MembersStage{api: api, listID: listID}
}

// Resource returns ResourceMembers.
func (s *MembersStage) Resource() domain.ResourceType { return domain.ResourceMembers }

// Action returns the members queue action.
func (s *MembersStage) Action() string { return domain.ResourceMembers.Action() }

// Iterate upserts one member.
func (s *MembersStage) Iterate(ctx context.Context, _ string, entity domain.Entity) error {
	member, ok := entity.(*domain.ListMember)
	if !ok {
		return unexpectedEntity(s.Resource(), entity)
	}
	_, err := s.api.UpdateOrCreate(ctx, s.listID, member)
	return err
}

// Complete does nothing.
func (s *MembersStage) Complete(context.Context, domain.SyncJob) error { return nil }

// DefaultStages builds the stage set for a store. The members stage is only
// included when a list is configured.
func DefaultStages(api driven.MarketingAPI, chain *Chain, listID string) []Stage {
	stages := []Stage{
		NewProductsStage(api, chain),
		NewOrdersStage(api),
		NewCustomersStage(api),
		NewCartsStage(api),
	}
	if listID != "" {
		stages = append(stages, NewMembersStage(api, listID))
	}
	return stages
}
