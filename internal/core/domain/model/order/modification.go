package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ItemChange is one line of a seller edit.
type ItemChange struct {
	ProductID   string
	ProductName string
	OldQuantity int
	NewQuantity int
	OldPrice    decimal.Decimal
	NewPrice    decimal.Decimal
	Removed     bool
}

// Modification is a seller edit awaiting the buyer's decision.
type Modification struct {
	OriginalTotal decimal.Decimal
	NewTotal      decimal.Decimal
	Reason        string
	ModifiedAt    time.Time
	// Changes is only filled by SubmitEdit; it is not persisted.
	Changes []ItemChange
}

// Difference is what the buyer pays more (or less, when negative) after the edit.
func (m Modification) Difference() decimal.Decimal {
	return m.NewTotal.Sub(m.OriginalTotal)
}

// Modification returns the recorded edit, if the seller made one.
func (o *Order) Modification() (Modification, bool) {
	if !o.edit.isModified {
		return Modification{}, false
	}

	m := Modification{
		NewTotal: o.ItemsTotal(),
		Reason:   o.edit.reason,
	}
	if o.edit.originalTotal != nil {
		m.OriginalTotal = *o.edit.originalTotal
	}
	if o.edit.modifiedAt != nil {
		m.ModifiedAt = *o.edit.modifiedAt
	}
	return m, true
}

// SubmitEdit replaces the order's items with the seller's edited quantities and prices
// and sends the order to the buyer for approval.
//
// Business rules:
//   - only the seller may edit, and only while the order is pending or being edited
//   - the reason is mandatory
//   - items can be changed or removed but not added, and at least one item must remain
//   - quantities stay positive and prices non-negative
//   - an edit without any change is rejected; the seller should confirm instead
//   - sentinel items are kept as they are
//
// Submitting the identical edit again while the order awaits approval is a replay.
func (o *Order) SubmitEdit(
	actor kernel.Actor,
	items []Item,
	reason string,
	now time.Time,
) (Modification, TransitionResult, error) {
	if err := actor.Validate(); err != nil {
		return Modification{}, TransitionResult{}, err
	}

	result, err := Transition(o.status, actor.Role(), SubmitEdit)
	if err != nil {
		return Modification{}, TransitionResult{}, err
	}
	if result.Replayed {
		m, _ := o.Modification()
		if o.edit.reason == strings.TrimSpace(reason) && sameItems(regularItems(o.items), regularItems(items)) {
			return m, result, nil
		}
		return Modification{}, TransitionResult{}, invalidTransition(SubmitEdit, actor.Role(), o.status)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Modification{}, TransitionResult{}, errs.NewValueIsRequiredError("modification reason")
	}

	edited, changes, err := o.diff(regularItems(items))
	if err != nil {
		return Modification{}, TransitionResult{}, err
	}

	originalTotal := o.ItemsTotal()
	for _, item := range o.items {
		if item.IsSentinel() {
			edited = append(edited, item)
		}
	}

	o.items = edited
	o.status = result.To
	o.edit = editState{
		isModified:    true,
		reason:        reason,
		originalTotal: &originalTotal,
		modifiedAt:    &now,
	}

	return Modification{
		OriginalTotal: originalTotal,
		NewTotal:      ItemsTotal(edited),
		Reason:        reason,
		ModifiedAt:    now,
		Changes:       changes,
	}, result, nil
}

// diff checks the edited items against the current ones and returns them in the
// original order together with the list of changes.
func (o *Order) diff(items []Item) ([]Item, []ItemChange, error) {
	if len(items) == 0 {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause(
			"items", errors.New("an edit cannot remove every item, reject the order instead"))
	}

	proposed := make(map[string]Item, len(items))
	var errList []error
	for _, item := range items {
		if err := item.Validate(); err != nil {
			errList = append(errList, err)
			continue
		}
		if _, dup := proposed[item.ProductID]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("product %s is listed twice", item.ProductID)))
			continue
		}
		if !slices.ContainsFunc(o.items, func(cur Item) bool { return cur.ProductID == item.ProductID }) {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("product %s is not in the order, items cannot be added", item.ProductID)))
			continue
		}
		proposed[item.ProductID] = item
	}
	if err := errors.Join(errList...); err != nil {
		return nil, nil, err
	}

	var (
		edited  []Item
		changes []ItemChange
	)
	for _, cur := range o.items {
		if cur.IsSentinel() {
			continue
		}

		next, kept := proposed[cur.ProductID]
		if !kept {
			changes = append(changes, ItemChange{
				ProductID:   cur.ProductID,
				ProductName: cur.ProductName,
				OldQuantity: cur.Quantity,
				OldPrice:    cur.Price,
				Removed:     true,
			})
			continue
		}

		updated := cur
		updated.Quantity = next.Quantity
		updated.Price = next.Price
		edited = append(edited, updated)

		if cur.Quantity != next.Quantity || !cur.Price.Equal(next.Price) {
			changes = append(changes, ItemChange{
				ProductID:   cur.ProductID,
				ProductName: cur.ProductName,
				OldQuantity: cur.Quantity,
				NewQuantity: next.Quantity,
				OldPrice:    cur.Price,
				NewPrice:    next.Price,
			})
		}
	}

	if len(changes) == 0 {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause(
			"items", errors.New("nothing was changed, confirm the order instead"))
	}

	return edited, changes, nil
}

func regularItems(items []Item) []Item {
	regular := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsSentinel() {
			regular = append(regular, item)
		}
	}
	return regular
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]Item, len(a))
	for _, item := range a {
		byID[item.ProductID] = item
	}
	for _, item := range b {
		cur, ok := byID[item.ProductID]
		if !ok || cur.Quantity != item.Quantity || !cur.Price.Equal(item.Price) {
			return false
		}
	}
	return true
}
