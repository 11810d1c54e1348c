package order

import (
	"errors"
	"fmt"
	"strings"

	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// SentinelProductID marks a legacy line item that stands for the delivery fee. Such
// items never count towards item totals and are never resolved against the catalog.
const SentinelProductID = "delivery"

// Item is a line of an order. PavilionNumber is empty when the item did not carry its
// pavilion and must be resolved through the catalog.
type Item struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	PavilionNumber string          `json:"pavilionNumber,omitempty"`
}

// IsSentinel reports whether the item is the delivery placeholder.
func (i Item) IsSentinel() bool {
	return i.ProductID == SentinelProductID
}

// Total is price times quantity.
func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks a regular line item. Sentinel items are not validated.
func (i Item) Validate() error {
	if i.IsSentinel() {
		return nil
	}

	var errList []error
	if strings.TrimSpace(i.ProductID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("product id"))
	}
	if i.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity of "+i.ProductID, i.Quantity, 1, "unbounded"))
	}
	if i.Price.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"price of "+i.ProductID, fmt.Errorf("%s is negative", i.Price)))
	}
	return errors.Join(errList...)
}

// ItemsTotal sums every non-sentinel item.
func ItemsTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.IsSentinel() {
			continue
		}
		total = total.Add(item.Total())
	}
	return total
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[string]struct{}, len(items))
	var errList []error
	for _, item := range items {
		if err := item.Validate(); err != nil {
			errList = append(errList, err)
			continue
		}
		if item.IsSentinel() {
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("product %s is listed twice", item.ProductID)))
		}
		seen[item.ProductID] = struct{}{}
	}
	return errors.Join(errList...)
}
