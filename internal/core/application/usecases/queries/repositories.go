// Package queries contains read operations for managers and buyers.
// Plain listings read the orders table directly; views that need domain rules (batching,
// settlement) rebuild the aggregates through OrderReader and run the domain services.
package queries

import (
	"context"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
)

// OrderReader loads order aggregates outside of a transaction.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error)
}
