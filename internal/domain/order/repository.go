package order

import "context"

type Repository interface {
	// Insert persists a new order and returns the store-assigned identifier.
	Insert(ctx context.Context, order *Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	// SetTracking updates the tracking code of an existing order.
	// Returns ErrNotFound when no order has the given identifier.
	SetTracking(ctx context.Context, id int64, tracking string) error
	// TotalQuantity sums the quantity field across all recorded orders.
	TotalQuantity(ctx context.Context) (int64, error)
}
