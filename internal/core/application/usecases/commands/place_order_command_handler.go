package commands

import (
	"context"

	"market/internal/core/domain/model/order"
	"market/internal/pkg/clock"
)

// PlaceOrderCommandHandler stores a new pending order.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().ID(),
		cmd.PavilionNumber(),
		cmd.DeliveryAddress(),
		cmd.Items(),
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
