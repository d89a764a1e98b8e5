package driven

import (
	"context"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// MarketingAPI is the subset of the remote marketing API the sync pipeline drives.
//
// Errors are classified with the domain API error types: *domain.TransportError
// when the API could not be reached, *domain.BusinessError and
// *domain.ServerError when it answered with a failure, and
// *domain.ValidationError when a payload was rejected before submission.
// Get methods return nil and no error when the remote entity does not exist
// or the lookup was rejected.
type MarketingAPI interface {
	// Ping reports whether the API accepts the configured credential.
	Ping(ctx context.Context) bool

	GetStore(ctx context.Context, storeID string) (*domain.Store, error)
	AddStore(ctx context.Context, store *domain.Store) (*domain.Store, error)
	UpdateStore(ctx context.Context, store *domain.Store) (*domain.Store, error)

	AddStoreProduct(ctx context.Context, storeID string, product *domain.Product) (*domain.Product, error)

	// DeleteStoreProduct reports whether the product existed and was removed.
	DeleteStoreProduct(ctx context.Context, storeID, productID string) (bool, error)

	GetStoreOrder(ctx context.Context, storeID, orderID string) (*domain.Order, error)
	AddStoreOrder(ctx context.Context, storeID string, order *domain.Order) (*domain.Order, error)
	UpdateStoreOrder(ctx context.Context, storeID string, order *domain.Order) (*domain.Order, error)

	GetCustomer(ctx context.Context, storeID, customerID string) (*domain.Customer, error)
	AddCustomer(ctx context.Context, storeID string, customer *domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, storeID string, customer *domain.Customer) (*domain.Customer, error)

	GetCart(ctx context.Context, storeID, cartID string) (*domain.Cart, error)
	AddCart(ctx context.Context, storeID string, cart *domain.Cart) (*domain.Cart, error)
	UpdateCart(ctx context.Context, storeID string, cart *domain.Cart) (*domain.Cart, error)

	// UpdateOrCreate upserts a member of listID by its member hash.
	UpdateOrCreate(ctx context.Context, listID string, member *domain.ListMember) (*domain.ListMember, error)
}
