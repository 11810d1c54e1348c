package order

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is a buyer's purchase from one pavilion. It is the aggregate root for the whole
// lifecycle: seller review, buyer approval of edits, delivery pricing, per-pavilion
// payment, collection and delivery.
//
// Order follows these invariants:
//   - status changes only through Apply, SubmitEdit and SettlePayment, and only along
//     the transition table
//   - a failed mutation leaves every field untouched
//   - deliveryPrice is fixed once the order leaves confirmed or manager_pricing
//   - the payments map has one record per settlement unit once delivery is priced
//   - customerApproved is only meaningful when the order was modified
//   - managerID and courierID are set at most once
type Order struct {
	id              kernel.UUID
	customerID      kernel.UserID
	pavilionNumber  string
	deliveryAddress string
	items           []Item
	status          Status

	deliveryPrice *decimal.Decimal
	payments      map[string]PaymentRecord

	edit editState

	managerID *kernel.UserID
	courierID *kernel.UserID

	createdAt time.Time

	// version is the optimistic lock counter maintained by the repository
	version int64

	isConstructed bool
}

type editState struct {
	isModified       bool
	reason           string
	originalTotal    *decimal.Decimal
	customerApproved bool
	modifiedAt       *time.Time
}

// State is a flat copy of every order field. Repositories use it to persist and to
// restore the aggregate.
type State struct {
	ID                 kernel.UUID
	CustomerID         kernel.UserID
	PavilionNumber     string
	DeliveryAddress    string
	Items              []Item
	Status             Status
	DeliveryPrice      *decimal.Decimal
	Payments           map[string]PaymentRecord
	IsModified         bool
	ModificationReason string
	OriginalTotal      *decimal.Decimal
	CustomerApproved   bool
	ModifiedAt         *time.Time
	ManagerID          *kernel.UserID
	CourierID          *kernel.UserID
	CreatedAt          time.Time
	Version            int64
}

// NewOrder creates a pending order.
//
// Parameters:
//   - id: unique identifier of the order
//   - customerID: the buyer placing the order
//   - pavilionNumber: the pavilion the order was placed in
//   - deliveryAddress: free-form address, compared after normalization when batching
//   - items: at least one line item, each product listed once
//   - createdAt: placement time
//
// Returns all validation errors joined.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UserID,
	pavilionNumber string,
	deliveryAddress string,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		payments:      map[string]PaymentRecord{},
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPavilionNumber(pavilionNumber),
		o.setDeliveryAddress(deliveryAddress),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. It validates shape only; the
// lifecycle history that produced the state is trusted.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		status:        s.Status,
		payments:      maps.Clone(s.Payments),
		managerID:     s.ManagerID,
		courierID:     s.CourierID,
		createdAt:     s.CreatedAt,
		version:       s.Version,
		isConstructed: true,
		edit: editState{
			isModified:       s.IsModified,
			reason:           s.ModificationReason,
			originalTotal:    s.OriginalTotal,
			customerApproved: s.CustomerApproved,
			modifiedAt:       s.ModifiedAt,
		},
	}
	if o.payments == nil {
		o.payments = map[string]PaymentRecord{}
	}

	var priceErr error
	if s.DeliveryPrice != nil {
		priceErr = o.setDeliveryPrice(*s.DeliveryPrice)
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setPavilionNumber(s.PavilionNumber),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.setItems(s.Items),
		s.Status.Validate(),
		priceErr,
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UserID {
	return o.customerID
}

// PavilionNumber is the pavilion the order was placed in. Items may still belong to
// other pavilions.
func (o *Order) PavilionNumber() string {
	return o.pavilionNumber
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Items returns a copy of the line items, sentinel items included.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

func (o *Order) Status() Status {
	return o.status
}

// DeliveryPrice returns the staged or final delivery fee and whether one is set.
func (o *Order) DeliveryPrice() (decimal.Decimal, bool) {
	if o.deliveryPrice == nil {
		return decimal.Zero, false
	}
	return *o.deliveryPrice, true
}

// Payments returns a copy of the settlement records keyed by unit.
func (o *Order) Payments() map[string]PaymentRecord {
	return maps.Clone(o.payments)
}

// Payment returns the record of one settlement unit.
func (o *Order) Payment(unitKey string) (PaymentRecord, bool) {
	p, ok := o.payments[unitKey]
	return p, ok
}

func (o *Order) IsModified() bool {
	return o.edit.isModified
}

func (o *Order) ModificationReason() string {
	return o.edit.reason
}

// OriginalTotal is the item total before the seller's edit.
func (o *Order) OriginalTotal() (decimal.Decimal, bool) {
	if o.edit.originalTotal == nil {
		return decimal.Zero, false
	}
	return *o.edit.originalTotal, true
}

// CustomerApproved is always false for orders that were never modified.
func (o *Order) CustomerApproved() bool {
	return o.edit.isModified && o.edit.customerApproved
}

func (o *Order) ModifiedAt() *time.Time {
	return o.edit.modifiedAt
}

func (o *Order) ManagerID() *kernel.UserID {
	return o.managerID
}

func (o *Order) CourierID() *kernel.UserID {
	return o.courierID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Version() int64 {
	return o.version
}

// SyncVersion records the version the repository stored. Only repositories call it.
func (o *Order) SyncVersion(v int64) {
	o.version = v
}

// State returns a copy of every field for persistence.
func (o *Order) State() State {
	return State{
		ID:                 o.id,
		CustomerID:         o.customerID,
		PavilionNumber:     o.pavilionNumber,
		DeliveryAddress:    o.deliveryAddress,
		Items:              slices.Clone(o.items),
		Status:             o.status,
		DeliveryPrice:      o.deliveryPrice,
		Payments:           maps.Clone(o.payments),
		IsModified:         o.edit.isModified,
		ModificationReason: o.edit.reason,
		OriginalTotal:      o.edit.originalTotal,
		CustomerApproved:   o.CustomerApproved(),
		ModifiedAt:         o.edit.modifiedAt,
		ManagerID:          o.managerID,
		CourierID:          o.courierID,
		CreatedAt:          o.createdAt,
		Version:            o.version,
	}
}

// ItemsTotal sums all non-sentinel items.
func (o *Order) ItemsTotal() decimal.Decimal {
	return ItemsTotal(o.items)
}

// GrandTotal is the item total plus the delivery fee. Legacy sentinel items stand in
// for the fee while none is priced.
func (o *Order) GrandTotal() decimal.Decimal {
	total := o.ItemsTotal()
	if o.deliveryPrice != nil {
		return total.Add(*o.deliveryPrice)
	}
	for _, item := range o.items {
		if item.IsSentinel() {
			total = total.Add(item.Total())
		}
	}
	return total
}

// PaidAmount sums the paid settlement units.
func (o *Order) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range o.payments {
		if p.IsPaid() {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}

// SettlementTotal sums the amounts of every settlement unit, paid or not. It is what
// the buyer is asked to pay in total once delivery is priced.
func (o *Order) SettlementTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.payments {
		total = total.Add(p.Amount)
	}
	return total
}

// IsFullyPaid reports whether every settlement unit is paid. An order without
// settlement units is never fully paid.
func (o *Order) IsFullyPaid() bool {
	if len(o.payments) == 0 {
		return false
	}
	if o.deliveryPrice != nil && o.deliveryPrice.IsPositive() {
		if _, ok := o.payments[DeliveryUnitKey]; !ok {
			return false
		}
	}
	return len(o.UnpaidUnits()) == 0
}

// UnpaidUnits lists unpaid settlement unit keys in lexical order.
func (o *Order) UnpaidUnits() []string {
	var unpaid []string
	for key, p := range o.payments {
		if !p.IsPaid() {
			unpaid = append(unpaid, key)
		}
	}
	slices.Sort(unpaid)
	return unpaid
}

// SettlementBalanced reports whether the settlement records add up to the given unit
// totals plus the delivery fee, with a record for every unit.
func (o *Order) SettlementBalanced(units []SettlementUnit) bool {
	expected := decimal.Zero
	keys := make(map[string]struct{}, len(units)+1)
	for _, unit := range units {
		keys[unit.Key] = struct{}{}
		expected = expected.Add(unit.Amount)
	}
	if o.deliveryPrice != nil && o.deliveryPrice.IsPositive() {
		keys[DeliveryUnitKey] = struct{}{}
		expected = expected.Add(*o.deliveryPrice)
	}
	if len(keys) != len(o.payments) {
		return false
	}

	actual := decimal.Zero
	for key, p := range o.payments {
		if _, ok := keys[key]; !ok {
			return false
		}
		actual = actual.Add(p.Amount)
	}
	return actual.Equal(expected)
}

// HasStagedPrice reports an order whose delivery fee was recorded by batch pricing but
// which has not moved to payment_pending yet.
func (o *Order) HasStagedPrice() bool {
	return o.deliveryPrice != nil && (o.status == Confirmed || o.status == ManagerPricing)
}

// Apply performs action on behalf of actor. It is the single path for status changes
// other than seller edits.
//
// The transition table decides whether the action is allowed. On top of it:
//   - PriceDelivery requires a staged delivery price
//   - Pay requires every settlement unit to be paid
//   - Approve marks the edit as approved by the buyer
//   - ClaimPricing and PriceDelivery remember the first manager
//   - a courier dispatching remembers the courier, and only that courier may deliver
//
// A replayed action returns a TransitionResult with Replayed set and changes nothing.
func (o *Order) Apply(actor kernel.Actor, action Action) (TransitionResult, error) {
	if err := actor.Validate(); err != nil {
		return TransitionResult{}, err
	}
	if action == SubmitEdit {
		return TransitionResult{}, errs.NewValueIsInvalidErrorWithCause(
			"action", errors.New("edits are submitted with their items and reason"))
	}

	result, err := Transition(o.status, actor.Role(), action)
	if err != nil {
		return TransitionResult{}, err
	}
	if result.Replayed {
		return result, nil
	}

	if err = o.checkPreconditions(actor, action); err != nil {
		return TransitionResult{}, err
	}

	o.status = result.To
	switch action {
	case Approve:
		o.edit.customerApproved = true
	case ClaimPricing, PriceDelivery:
		o.rememberManager(actor)
	case Dispatch:
		if actor.Role() == kernel.Courier && o.courierID == nil {
			id := actor.ID()
			o.courierID = &id
		}
	default:
	}

	return result, nil
}

func (o *Order) checkPreconditions(actor kernel.Actor, action Action) error {
	switch action {
	case PriceDelivery:
		if o.deliveryPrice == nil {
			return errs.NewValueIsRequiredError("delivery price")
		}
	case Pay:
		if !o.IsFullyPaid() {
			return errs.NewValueIsInvalidErrorWithCause(
				"payments", fmt.Errorf("unpaid settlement units: %s", strings.Join(o.UnpaidUnits(), ", ")))
		}
	case Approve:
		if !o.edit.isModified {
			return errs.NewValueIsInvalidErrorWithCause("order", errors.New("there are no changes to approve"))
		}
	case Deliver:
		if actor.Role() == kernel.Courier && o.courierID != nil && *o.courierID != actor.ID() {
			return errs.NewValueIsInvalidErrorWithCause(
				"courier", fmt.Errorf("order is out for delivery with courier %s", *o.courierID))
		}
	default:
	}
	return nil
}

// StageDeliveryPrice records the delivery fee and opens one pending settlement record
// per unit, plus the delivery unit when the fee is positive. The order stays in its
// current status; Apply(PriceDelivery) moves it to payment_pending.
//
// Restaging before the price is applied overwrites the previous values. Once the order
// is awaiting payment, staging the same price again is a replay and any other price is
// rejected.
func (o *Order) StageDeliveryPrice(actor kernel.Actor, price decimal.Decimal, units []SettlementUnit) (bool, error) {
	if err := actor.Validate(); err != nil {
		return false, err
	}
	if actor.Role() != kernel.Manager {
		return false, invalidTransition(PriceDelivery, actor.Role(), o.status)
	}

	switch o.status {
	case Confirmed, ManagerPricing:
	case PaymentPending:
		if o.deliveryPrice != nil && o.deliveryPrice.Equal(price) {
			return true, nil
		}
		return false, invalidTransition(PriceDelivery, actor.Role(), o.status)
	default:
		return false, invalidTransition(PriceDelivery, actor.Role(), o.status)
	}

	if price.IsNegative() {
		return false, errs.NewValueIsInvalidErrorWithCause("delivery price", fmt.Errorf("%s is negative", price))
	}

	payments := make(map[string]PaymentRecord, len(units)+1)
	for _, unit := range units {
		if err := validateUnit(unit, payments); err != nil {
			return false, err
		}
		payments[unit.Key] = PaymentRecord{Status: PaymentPendingStatus, Amount: unit.Amount}
	}
	if price.IsPositive() {
		payments[DeliveryUnitKey] = PaymentRecord{Status: PaymentPendingStatus, Amount: price}
	}

	o.deliveryPrice = &price
	o.payments = payments
	o.rememberManager(actor)
	return false, nil
}

func validateUnit(unit SettlementUnit, seen map[string]PaymentRecord) error {
	if strings.TrimSpace(unit.Key) == "" || unit.Key == DeliveryUnitKey {
		return errs.NewValueIsInvalidErrorWithCause("settlement unit", fmt.Errorf("%q is not a pavilion", unit.Key))
	}
	if _, dup := seen[unit.Key]; dup {
		return errs.NewValueIsInvalidErrorWithCause("settlement unit", fmt.Errorf("%q is listed twice", unit.Key))
	}
	if unit.Amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("settlement unit", fmt.Errorf("%q has a negative total", unit.Key))
	}
	return nil
}

// SettlePayment marks one settlement unit as paid. The amount must equal the amount due
// exactly. Paying a paid unit again with the same amount is a replay and returns true.
//
// SettlePayment never moves the order to paid; callers apply Pay once IsFullyPaid.
func (o *Order) SettlePayment(
	actor kernel.Actor,
	unitKey string,
	amount decimal.Decimal,
	receiptURL string,
	paidAt time.Time,
) (bool, error) {
	if err := actor.Validate(); err != nil {
		return false, err
	}
	if actor.Role() != kernel.Buyer {
		return false, invalidTransition(Pay, actor.Role(), o.status)
	}

	record, ok := o.payments[unitKey]
	if ok && record.IsPaid() {
		if !record.Amount.Equal(amount) {
			return false, errs.NewAmountMismatchError(unitKey, record.Amount, amount)
		}
		return true, nil
	}

	if o.status != PaymentPending {
		return false, invalidTransition(Pay, actor.Role(), o.status)
	}
	if !ok {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"settlement unit", fmt.Errorf("order has no settlement unit %q", unitKey))
	}
	if !record.Amount.Equal(amount) {
		return false, errs.NewAmountMismatchError(unitKey, record.Amount, amount)
	}

	record.Status = PaymentPaidStatus
	record.Amount = amount
	record.ReceiptURL = receiptURL
	record.PaidAt = &paidAt
	o.payments[unitKey] = record
	return false, nil
}

func (o *Order) rememberManager(actor kernel.Actor) {
	if o.managerID == nil {
		id := actor.ID()
		o.managerID = &id
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UserID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setPavilionNumber(pavilion string) error {
	if strings.TrimSpace(pavilion) == "" {
		return errs.NewValueIsRequiredError("pavilion number")
	}
	o.pavilionNumber = pavilion
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setItems(items []Item) error {
	if err := validateItems(items); err != nil {
		return err
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setDeliveryPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("delivery price", fmt.Errorf("%s is negative", price))
	}
	o.deliveryPrice = &price
	return nil
}
