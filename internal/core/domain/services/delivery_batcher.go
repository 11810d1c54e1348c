package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/ports"

	"github.com/shopspring/decimal"
)

// BatchKey identifies orders that travel together: same buyer, same address.
type BatchKey struct {
	CustomerID kernel.UserID
	Address    string
}

// KeyOf returns the batch key of an order.
func KeyOf(o *order.Order) BatchKey {
	return BatchKey{CustomerID: o.CustomerID(), Address: NormalizeAddress(o.DeliveryAddress())}
}

// NormalizeAddress trims, collapses runs of whitespace and lowercases, so that
// "Lenina 1" and " lenina  1 " end up in the same batch.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Receipt is a paid settlement unit shown to managers before dispatch.
type Receipt struct {
	OrderID kernel.UUID
	Unit    string
	Amount  decimal.Decimal
	URL     string
	PaidAt  *time.Time
}

// DeliveryBatch is a manager's view of orders that share a delivery. It is never
// stored.
type DeliveryBatch struct {
	Key BatchKey
	// Address is the address as the buyer typed it on the first order.
	Address    string
	Orders     []*order.Order
	ItemsTotal decimal.Decimal
	// DeliveryPrice is the first price found on the batch's orders, if any.
	DeliveryPrice *decimal.Decimal
	Pavilions     []string
	Receipts      []Receipt
}

// Total is the item total plus one delivery fee for the whole batch.
func (b DeliveryBatch) Total() decimal.Decimal {
	if b.DeliveryPrice == nil {
		return b.ItemsTotal
	}
	return b.ItemsTotal.Add(*b.DeliveryPrice)
}

// OrderOutcome is the result of a batch operation for one order.
type OrderOutcome struct {
	OrderID  kernel.UUID
	From     order.Status
	To       order.Status
	Replayed bool
	// Staged is set for an order whose price was stored but whose status did not move.
	Staged bool
	Err    error
}

// BatchResult collects per-order outcomes of a batch operation. Orders after the first
// failure are not attempted and do not appear.
type BatchResult struct {
	Key      BatchKey
	Outcomes []OrderOutcome
}

// Err joins the errors of every failed order.
func (r BatchResult) Err() error {
	var errList []error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			errList = append(errList, outcome.Err)
		}
	}
	return errors.Join(errList...)
}

// Succeeded counts orders that changed or were already done.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Err == nil {
			n++
		}
	}
	return n
}

// DeliveryBatcher groups orders for delivery and fans manager actions out over a batch.
type DeliveryBatcher struct {
	grouper PavilionGrouper
	catalog ports.ProductCatalog
}

func NewDeliveryBatcher(catalog ports.ProductCatalog) DeliveryBatcher {
	return DeliveryBatcher{
		grouper: NewPavilionGrouper(),
		catalog: catalog,
	}
}

// Batch groups the orders in status by batch key. Batches and the orders inside them
// keep the order of first appearance.
func (DeliveryBatcher) Batch(orders []*order.Order, status order.Status) []DeliveryBatch {
	var (
		batches []DeliveryBatch
		index   = map[BatchKey]int{}
	)

	for _, o := range orders {
		if o == nil || o.Status() != status {
			continue
		}

		key := KeyOf(o)
		i, seen := index[key]
		if !seen {
			i = len(batches)
			index[key] = i
			batches = append(batches, DeliveryBatch{Key: key, Address: o.DeliveryAddress(), ItemsTotal: decimal.Zero})
		}

		b := &batches[i]
		b.Orders = append(b.Orders, o)
		b.ItemsTotal = b.ItemsTotal.Add(o.ItemsTotal())
		if price, ok := o.DeliveryPrice(); ok && b.DeliveryPrice == nil {
			b.DeliveryPrice = &price
		}
		for _, pavilion := range pavilionsOf(o) {
			if !slices.Contains(b.Pavilions, pavilion) {
				b.Pavilions = append(b.Pavilions, pavilion)
			}
		}
		b.Receipts = append(b.Receipts, receiptsOf(o)...)
	}

	return batches
}

// Stage records price on the order together with its settlement units. See
// Order.StageDeliveryPrice for the replay rules.
func (b DeliveryBatcher) Stage(
	ctx context.Context,
	o *order.Order,
	actor kernel.Actor,
	price decimal.Decimal,
) (bool, error) {
	grouping, err := b.grouper.GroupByPavilion(ctx, o, b.catalog)
	if err != nil {
		return false, err
	}
	return o.StageDeliveryPrice(actor, price, grouping.Units())
}

// Pricable reports whether batch pricing at price should touch the order. Orders still
// waiting for a price always belong to the batch. An order already awaiting payment only
// does when it carries the same price, as a replay of this pricing; one priced by an
// earlier batch at another price is left alone.
func Pricable(o *order.Order, price decimal.Decimal) bool {
	switch o.Status() {
	case order.Confirmed, order.ManagerPricing:
		return true
	case order.PaymentPending:
		current, ok := o.DeliveryPrice()
		return ok && current.Equal(price)
	default:
		return false
	}
}

// StagedConsensus returns the price every not yet advanced order of a batch was staged
// with. It fails when any such order is unstaged or the staged prices differ, or when
// there is nothing left to advance.
func StagedConsensus(orders []*order.Order) (decimal.Decimal, bool) {
	var consensus *decimal.Decimal
	for _, o := range orders {
		if o.Status() != order.Confirmed && o.Status() != order.ManagerPricing {
			continue
		}
		price, ok := o.DeliveryPrice()
		if !ok {
			return decimal.Zero, false
		}
		if consensus == nil {
			consensus = &price
			continue
		}
		if !consensus.Equal(price) {
			return decimal.Zero, false
		}
	}

	if consensus == nil {
		return decimal.Zero, false
	}
	return *consensus, true
}

func pavilionsOf(o *order.Order) []string {
	pavilions := []string{o.PavilionNumber()}
	for _, item := range o.Items() {
		if item.IsSentinel() || item.PavilionNumber == "" {
			continue
		}
		if !slices.Contains(pavilions, item.PavilionNumber) {
			pavilions = append(pavilions, item.PavilionNumber)
		}
	}
	return pavilions
}

func receiptsOf(o *order.Order) []Receipt {
	payments := o.Payments()
	keys := make([]string, 0, len(payments))
	for key := range payments {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var receipts []Receipt
	for _, key := range keys {
		record := payments[key]
		if !record.IsPaid() {
			continue
		}
		receipts = append(receipts, Receipt{
			OrderID: o.ID(),
			Unit:    key,
			Amount:  record.Amount,
			URL:     record.ReceiptURL,
			PaidAt:  record.PaidAt,
		})
	}
	return receipts
}
