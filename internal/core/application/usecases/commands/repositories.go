// Package commands contains the operations actors perform on orders.
// Every command follows the same pattern: a validated command value, a handler that
// opens one unit of work per order it writes, and notification after commit.
package commands

import (
	"context"

	"market/internal/core/domain/model/order"
	"market/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxFactory provides access to the notification outbox within a transaction.
	OutboxFactory interface {
		NotificationOutbox() ports.NotificationOutbox
	}

	// OrderUoW manages transactions that write a single order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW manages transactions on the notification outbox.
	OutboxUoW interface {
		TxManager
		OutboxFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// StatusNotifier tells the people concerned that an order changed status. It never
	// fails the caller; problems are logged.
	StatusNotifier interface {
		Notify(ctx context.Context, o *order.Order, result order.TransitionResult)
	}
)

// saveOrder writes one order in its own unit of work.
func saveOrder(ctx context.Context, factory OrderUoWFactory, o *order.Order) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
