package commands

import (
	"context"

	"market/internal/core/domain/model/order"
	"market/internal/pkg/clock"
)

// EditOrderCommandHandler submits a seller's edit for buyer approval.
type EditOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
	clock      clock.Clock
}

func NewEditOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier StatusNotifier,
	clk clock.Clock,
) EditOrderCommandHandler {
	return EditOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

func (h EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (order.Modification, error) {
	if err := cmd.Validate(); err != nil {
		return order.Modification{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Modification{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Modification{}, err
	}

	modification, result, err := o.SubmitEdit(cmd.Actor(), cmd.Items(), cmd.Reason(), h.clock.Now())
	if err != nil {
		return order.Modification{}, err
	}
	if result.Replayed {
		return modification, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return order.Modification{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Modification{}, err
	}

	h.notifier.Notify(ctx, o, result)
	return modification, nil
}
