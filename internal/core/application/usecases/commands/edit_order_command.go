package commands

import (
	"errors"
	"slices"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"
)

var (
	ErrEditOrderCommandIsNotConstructed = errors.New(
		"EditOrderCommand must be created via NewEditOrderCommand constructor",
	)
)

// EditOrderCommand carries a seller's changed quantities and prices. Rules about what
// may change live on the order; the command only checks that something was sent.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	items   []order.Item
	reason  string

	guard guard.ConstructorGuard
}

func NewEditOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	items []order.Item,
	reason string,
) (EditOrderCommand, error) {
	cmd := EditOrderCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	var itemsErr error
	if len(items) == 0 {
		itemsErr = errs.NewValueIsRequiredError("items")
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		itemsErr,
	); err != nil {
		return EditOrderCommand{}, err
	}

	cmd.actor = actor
	cmd.orderID = orderID
	cmd.items = slices.Clone(items)
	return cmd, nil
}

func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

func (c EditOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c EditOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c EditOrderCommand) Items() []order.Item {
	return slices.Clone(c.items)
}

func (c EditOrderCommand) Reason() string {
	return c.reason
}
