package commands

import (
	"context"

	"market/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler applies a lifecycle action to one order.
//
// A replayed action is reported as success without writing or notifying. A stale read
// surfaces as *errs.PersistenceConflictError from the repository; the caller re-fetches
// and decides again.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier StatusNotifier,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (order.TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return order.TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.TransitionResult{}, err
	}

	result, err := o.Apply(cmd.Actor(), cmd.Action())
	if err != nil {
		return order.TransitionResult{}, err
	}
	if result.Replayed {
		return result, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return order.TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.TransitionResult{}, err
	}

	h.notifier.Notify(ctx, o, result)
	return result, nil
}
