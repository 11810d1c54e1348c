package commands

import (
	"errors"
	"slices"
	"strings"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
)

// PlaceOrderCommand registers an order the checkout already split by pavilion. The
// order starts pending and waits for the seller.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewPlaceOrderCommand(buyer, orderID, "12A", "Lenina 1", items)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	actor           kernel.Actor
	orderID         kernel.UUID
	pavilionNumber  string
	deliveryAddress string
	items           []order.Item

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	pavilionNumber string,
	deliveryAddress string,
	items []order.Item,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setPavilionNumber(pavilionNumber),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setItems(items),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) PavilionNumber() string {
	return c.pavilionNumber
}

func (c PlaceOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c PlaceOrderCommand) Items() []order.Item {
	return slices.Clone(c.items)
}

func (c *PlaceOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != kernel.Buyer {
		return errs.NewValueIsInvalidErrorWithCause("actor", errors.New("only buyers place orders"))
	}
	c.actor = actor
	return nil
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setPavilionNumber(pavilion string) error {
	if strings.TrimSpace(pavilion) == "" {
		return errs.NewValueIsRequiredError("pavilion number")
	}
	c.pavilionNumber = strings.TrimSpace(pavilion)
	return nil
}

func (c *PlaceOrderCommand) setDeliveryAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	c.deliveryAddress = strings.TrimSpace(address)
	return nil
}

func (c *PlaceOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = slices.Clone(items)
	return nil
}
