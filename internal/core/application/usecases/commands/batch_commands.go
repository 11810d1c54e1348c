package commands

import (
	"errors"
	"fmt"
	"strings"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/services"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrPriceDeliveryBatchCommandIsNotConstructed = errors.New(
		"PriceDeliveryBatchCommand must be created via NewPriceDeliveryBatchCommand constructor",
	)
	ErrDispatchBatchCommandIsNotConstructed = errors.New(
		"DispatchBatchCommand must be created via NewDispatchBatchCommand constructor",
	)
)

// PriceDeliveryBatchCommand sets one delivery price on every confirmed order a buyer
// has for an address.
type PriceDeliveryBatchCommand struct { //nolint:recvcheck //using for validation
	actor kernel.Actor
	key   services.BatchKey
	price decimal.Decimal

	guard guard.ConstructorGuard
}

func NewPriceDeliveryBatchCommand(
	actor kernel.Actor,
	customerID kernel.UserID,
	address string,
	price decimal.Decimal,
) (PriceDeliveryBatchCommand, error) {
	var priceErr error
	if price.IsNegative() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("delivery price", fmt.Errorf("%s is negative", price))
	}

	key, keyErr := newBatchKey(customerID, address)
	if err := errors.Join(actor.Validate(), keyErr, priceErr); err != nil {
		return PriceDeliveryBatchCommand{}, err
	}

	return PriceDeliveryBatchCommand{
		actor: actor,
		key:   key,
		price: price,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c PriceDeliveryBatchCommand) Validate() error {
	return c.guard.Validate(ErrPriceDeliveryBatchCommandIsNotConstructed)
}

func (c PriceDeliveryBatchCommand) Actor() kernel.Actor {
	return c.actor
}

// Key is the batch key with the address already normalized.
func (c PriceDeliveryBatchCommand) Key() services.BatchKey {
	return c.key
}

func (c PriceDeliveryBatchCommand) Price() decimal.Decimal {
	return c.price
}

// DispatchBatchCommand hands every ready order of a batch over for delivery.
type DispatchBatchCommand struct { //nolint:recvcheck //using for validation
	actor kernel.Actor
	key   services.BatchKey

	guard guard.ConstructorGuard
}

func NewDispatchBatchCommand(actor kernel.Actor, customerID kernel.UserID, address string) (DispatchBatchCommand, error) {
	key, keyErr := newBatchKey(customerID, address)
	if err := errors.Join(actor.Validate(), keyErr); err != nil {
		return DispatchBatchCommand{}, err
	}

	return DispatchBatchCommand{
		actor: actor,
		key:   key,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchBatchCommand) Validate() error {
	return c.guard.Validate(ErrDispatchBatchCommandIsNotConstructed)
}

func (c DispatchBatchCommand) Actor() kernel.Actor {
	return c.actor
}

func (c DispatchBatchCommand) Key() services.BatchKey {
	return c.key
}

func newBatchKey(customerID kernel.UserID, address string) (services.BatchKey, error) {
	var addressErr error
	if strings.TrimSpace(address) == "" {
		addressErr = errs.NewValueIsRequiredError("delivery address")
	}
	if err := errors.Join(customerID.Validate(), addressErr); err != nil {
		return services.BatchKey{}, err
	}
	return services.BatchKey{CustomerID: customerID, Address: services.NormalizeAddress(address)}, nil
}
