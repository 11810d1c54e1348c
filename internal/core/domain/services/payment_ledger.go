package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/ports"
	"market/internal/pkg/clock"
	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PaymentOutcome reports what RecordPayment did. Transition is set when the payment
// completed the order and it moved to paid.
type PaymentOutcome struct {
	Unit       string
	Replayed   bool
	Transition *order.TransitionResult
}

// UnitStatus is one line of the payment summary.
type UnitStatus struct {
	Key        string
	Amount     decimal.Decimal
	Status     order.PaymentStatus
	ReceiptURL string
	PaidAt     *time.Time
}

// PaymentSummary is what buyers and managers see on the payment screen.
type PaymentSummary struct {
	OrderID       kernel.UUID
	Status        order.Status
	ItemsTotal    decimal.Decimal
	DeliveryPrice decimal.Decimal
	OrderTotal    decimal.Decimal
	PaidAmount    decimal.Decimal
	Remaining     decimal.Decimal
	Units         []UnitStatus
	Unresolved    []order.Item
	FullyPaid     bool
}

// PaymentLedger settles orders one unit at a time. A unit is a pavilion of the order's
// items or the delivery fee.
//
// Business rules:
//   - a payment must match its unit's total exactly; short or over payments are refused
//   - paying a paid unit again with the same amount changes nothing
//   - the order moves to paid exactly when its last unit is paid
type PaymentLedger struct {
	grouper PavilionGrouper
	catalog ports.ProductCatalog
	clock   clock.Clock
}

func NewPaymentLedger(catalog ports.ProductCatalog, clk clock.Clock) PaymentLedger {
	return PaymentLedger{
		grouper: NewPavilionGrouper(),
		catalog: catalog,
		clock:   clk,
	}
}

// RecordPayment records that actor paid amount for unitKey of the order. The order is
// mutated in memory only; the caller persists it.
//
// Errors:
//   - *errs.ValueIsInvalidError when unitKey is neither a pavilion of the order nor a
//     priced delivery
//   - *errs.AmountMismatchError when amount differs from the unit total
//   - *errs.InvalidTransitionError when the order is not awaiting payment or the actor
//     is not the buyer
//
// On any error the order is unchanged.
func (l PaymentLedger) RecordPayment(
	ctx context.Context,
	o *order.Order,
	actor kernel.Actor,
	unitKey string,
	amount decimal.Decimal,
	receiptRef string,
) (PaymentOutcome, error) {
	if err := o.Validate(); err != nil {
		return PaymentOutcome{}, err
	}

	grouping, err := l.grouper.GroupByPavilion(ctx, o, l.catalog)
	if err != nil {
		return PaymentOutcome{}, err
	}

	expected, ok := UnitTotal(o, grouping, unitKey)
	if record, recorded := o.Payment(unitKey); recorded {
		expected, ok = record.Amount, true
	}
	if !ok {
		return PaymentOutcome{}, errs.NewValueIsInvalidErrorWithCause(
			"settlement unit", fmt.Errorf("order %s has nothing to pay for %q", o.ID(), unitKey))
	}
	if !amount.Equal(expected) {
		return PaymentOutcome{}, errs.NewAmountMismatchError(unitKey, expected, amount)
	}

	replayed, err := o.SettlePayment(actor, unitKey, amount, receiptRef, l.clock.Now())
	if err != nil {
		return PaymentOutcome{}, err
	}

	outcome := PaymentOutcome{Unit: unitKey, Replayed: replayed}
	if replayed {
		return outcome, nil
	}

	if o.Status() == order.PaymentPending && l.IsFullyPaid(o, grouping) && o.IsFullyPaid() {
		result, err := o.Apply(actor, order.Pay)
		if err != nil {
			return PaymentOutcome{}, err
		}
		outcome.Transition = &result
	}

	return outcome, nil
}

// IsFullyPaid reports whether every settlement unit, plus the delivery unit when
// delivery costs anything, has a paid record. See settlementKeys for which units count.
func (l PaymentLedger) IsFullyPaid(o *order.Order, grouping Grouping) bool {
	keys := settlementKeys(o, grouping)
	if price, ok := o.DeliveryPrice(); ok && price.IsPositive() {
		keys = append(keys, order.DeliveryUnitKey)
	}
	if len(keys) == 0 {
		return false
	}

	for _, key := range keys {
		record, ok := o.Payment(key)
		if !ok || !record.IsPaid() {
			return false
		}
	}
	return true
}

// settlementKeys lists the pavilion units an order has to settle. Before pricing these
// are the grouping's pavilions. Once settlement records exist they are the recorded
// pavilions plus any pavilion an item names itself; pavilions that only the catalog
// knows about do not count, so catalog changes after pricing cannot add a unit that
// nobody is able to pay.
func settlementKeys(o *order.Order, grouping Grouping) []string {
	payments := o.Payments()
	if len(payments) == 0 {
		return grouping.Pavilions()
	}

	seen := make(map[string]struct{}, len(payments))
	var keys []string
	add := func(key string) {
		if _, ok := seen[key]; ok || key == "" || key == order.DeliveryUnitKey {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, item := range o.Items() {
		if !item.IsSentinel() {
			add(item.PavilionNumber)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(payments)) {
		add(key)
	}
	return keys
}

// Summary describes the settlement state of the order. Once the order is priced the
// settlement records are the amounts due; before that the grouping is.
func (l PaymentLedger) Summary(o *order.Order, grouping Grouping) PaymentSummary {
	deliveryPrice, _ := o.DeliveryPrice()

	summary := PaymentSummary{
		OrderID:       o.ID(),
		Status:        o.Status(),
		ItemsTotal:    decimal.Zero,
		DeliveryPrice: deliveryPrice,
		PaidAmount:    decimal.Zero,
		Unresolved:    grouping.Unresolved,
		FullyPaid:     l.IsFullyPaid(o, grouping),
	}

	addUnit := func(key string, amount decimal.Decimal) {
		unit := UnitStatus{Key: key, Amount: amount, Status: order.PaymentPendingStatus}
		if record, ok := o.Payment(key); ok {
			unit.Status = record.Status
			unit.ReceiptURL = record.ReceiptURL
			unit.PaidAt = record.PaidAt
			if record.IsPaid() {
				summary.PaidAmount = summary.PaidAmount.Add(record.Amount)
			}
		}
		summary.Units = append(summary.Units, unit)
		if key != order.DeliveryUnitKey {
			summary.ItemsTotal = summary.ItemsTotal.Add(amount)
		}
	}

	if len(o.Payments()) == 0 {
		for _, group := range grouping.Groups {
			addUnit(group.PavilionNumber, group.Total)
		}
	} else {
		for _, group := range grouping.Groups {
			if record, ok := o.Payment(group.PavilionNumber); ok {
				addUnit(group.PavilionNumber, record.Amount)
			}
		}
		for _, key := range slices.Sorted(maps.Keys(o.Payments())) {
			if _, grouped := grouping.Group(key); !grouped && key != order.DeliveryUnitKey {
				record, _ := o.Payment(key)
				addUnit(key, record.Amount)
			}
		}
	}
	if deliveryPrice.IsPositive() {
		addUnit(order.DeliveryUnitKey, deliveryPrice)
	}
	summary.OrderTotal = summary.ItemsTotal.Add(deliveryPrice)

	summary.Remaining = summary.OrderTotal.Sub(summary.PaidAmount)
	if summary.Remaining.IsNegative() {
		summary.Remaining = decimal.Zero
	}
	return summary
}

// Group exposes the ledger's grouping so callers can build a summary.
func (l PaymentLedger) Group(ctx context.Context, o *order.Order) (Grouping, error) {
	return l.grouper.GroupByPavilion(ctx, o, l.catalog)
}

// UnitTotal returns what is due for unitKey: the pavilion group total, or the delivery
// fee when one is priced above zero.
func UnitTotal(o *order.Order, grouping Grouping, unitKey string) (decimal.Decimal, bool) {
	if unitKey == order.DeliveryUnitKey {
		price, ok := o.DeliveryPrice()
		if !ok || !price.IsPositive() {
			return decimal.Zero, false
		}
		return price, true
	}

	group, ok := grouping.Group(unitKey)
	if !ok {
		return decimal.Zero, false
	}
	return group.Total, true
}
