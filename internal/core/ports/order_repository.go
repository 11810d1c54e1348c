// Package ports defines the contracts between the application core and the
// infrastructure: persistence of orders and notifications, the product catalog, the user
// directory and notification transports.
package ports

import (
	"context"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write only succeeds if the stored
	// version still equals aggregate.Version(); otherwise it returns
	// *errs.PersistenceConflictError and stores nothing. On success the aggregate carries
	// the new version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier, or *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByStatus returns the orders in any of the given statuses, oldest first.
	ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error)

	// ListByCustomer returns a buyer's orders in any of the given statuses, oldest first.
	ListByCustomer(ctx context.Context, customerID kernel.UserID, statuses ...order.Status) ([]*order.Order, error)
}
