package commands

import (
	"errors"
	"fmt"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
)

// ChangeOrderStatusCommand is an actor's request to move one order along its lifecycle.
// Edits, payments and delivery pricing carry extra data and have their own commands.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(seller, orderID, order.Confirm)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	action  order.Action

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	action order.Action,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setAction(action),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Action() order.Action {
	return c.action
}

func (c *ChangeOrderStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setAction(action order.Action) error {
	switch action {
	case order.UnknownAction:
		return errs.NewValueIsRequiredError("action")
	case order.SubmitEdit, order.Pay, order.PriceDelivery:
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%s has its own command", action))
	default:
	}
	if _, ok := order.TargetOf(action); !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", action))
	}
	c.action = action
	return nil
}
