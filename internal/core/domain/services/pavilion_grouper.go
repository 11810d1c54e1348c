package services

import (
	"context"
	"errors"
	"fmt"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/ports"
	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PavilionGroup is the share of an order that one pavilion is paid for.
type PavilionGroup struct {
	PavilionNumber string
	Items          []order.Item
	Total          decimal.Decimal
	// SellerID is empty when no item of the group was resolved through the catalog.
	SellerID kernel.UserID
}

// Grouping is the result of splitting an order by pavilion. Unresolved items are kept
// for display but never counted towards any total.
type Grouping struct {
	Groups     []PavilionGroup
	Unresolved []order.Item
	Problems   []error
}

// ItemsTotal sums the resolved groups.
func (g Grouping) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, group := range g.Groups {
		total = total.Add(group.Total)
	}
	return total
}

// Group finds a group by pavilion number.
func (g Grouping) Group(pavilion string) (PavilionGroup, bool) {
	for _, group := range g.Groups {
		if group.PavilionNumber == pavilion {
			return group, true
		}
	}
	return PavilionGroup{}, false
}

// Pavilions lists the pavilion numbers in first-seen order.
func (g Grouping) Pavilions() []string {
	pavilions := make([]string, 0, len(g.Groups))
	for _, group := range g.Groups {
		pavilions = append(pavilions, group.PavilionNumber)
	}
	return pavilions
}

// Units converts the groups into settlement units for delivery pricing.
func (g Grouping) Units() []order.SettlementUnit {
	units := make([]order.SettlementUnit, 0, len(g.Groups))
	for _, group := range g.Groups {
		units = append(units, order.SettlementUnit{Key: group.PavilionNumber, Amount: group.Total})
	}
	return units
}

// PavilionGrouper splits orders by the pavilion each item is sold from.
type PavilionGrouper struct{}

func NewPavilionGrouper() PavilionGrouper {
	return PavilionGrouper{}
}

// GroupByPavilion groups the order's non-sentinel items. An item's pavilion is the one
// it carries, otherwise the catalog's. Items the catalog does not know end up in
// Unresolved with an *errs.UnresolvableProductError in Problems. Any other catalog
// error aborts grouping.
//
// Groups come out in the order their first item appears, so the result is stable for
// the same order and catalog.
func (PavilionGrouper) GroupByPavilion(
	ctx context.Context,
	o *order.Order,
	catalog ports.ProductCatalog,
) (Grouping, error) {
	if err := o.Validate(); err != nil {
		return Grouping{}, err
	}

	var (
		grouping Grouping
		index    = map[string]int{}
	)
	for _, item := range o.Items() {
		if item.IsSentinel() {
			continue
		}

		pavilion := item.PavilionNumber
		var sellerID kernel.UserID
		if pavilion == "" {
			product, err := catalog.ResolveProduct(ctx, item.ProductID)
			if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
				return Grouping{}, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
			}
			if err != nil || product.PavilionNumber == "" {
				grouping.Unresolved = append(grouping.Unresolved, item)
				grouping.Problems = append(grouping.Problems, errs.NewUnresolvableProductError(item.ProductID))
				continue
			}
			pavilion = product.PavilionNumber
			sellerID = product.SellerID
		}

		i, seen := index[pavilion]
		if !seen {
			i = len(grouping.Groups)
			index[pavilion] = i
			grouping.Groups = append(grouping.Groups, PavilionGroup{PavilionNumber: pavilion, Total: decimal.Zero})
		}

		group := &grouping.Groups[i]
		group.Items = append(group.Items, item)
		group.Total = group.Total.Add(item.Total())
		if group.SellerID == "" {
			group.SellerID = sellerID
		}
	}

	return grouping, nil
}
