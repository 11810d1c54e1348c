package commands

import (
	"errors"
	"fmt"
	"strings"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
)

// RecordPaymentCommand is a buyer's payment for one settlement unit of an order.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	orderID    kernel.UUID
	unit       string
	amount     decimal.Decimal
	receiptURL string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	unit string,
	amount decimal.Decimal,
	receiptURL string,
) (RecordPaymentCommand, error) {
	var errList []error
	errList = append(errList, actor.Validate(), orderID.Validate())
	if strings.TrimSpace(unit) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("settlement unit"))
	}
	if !amount.IsPositive() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not positive", amount)))
	}
	if err := errors.Join(errList...); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		actor:      actor,
		orderID:    orderID,
		unit:       strings.TrimSpace(unit),
		amount:     amount,
		receiptURL: strings.TrimSpace(receiptURL),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Unit is a pavilion number or order.DeliveryUnitKey.
func (c RecordPaymentCommand) Unit() string {
	return c.unit
}

func (c RecordPaymentCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c RecordPaymentCommand) ReceiptURL() string {
	return c.receiptURL
}
