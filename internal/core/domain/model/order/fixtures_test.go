package order_test

import (
	"testing"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	buyer   = kernel.MustNewActor("buyer-1", kernel.Buyer)
	seller  = kernel.MustNewActor("seller-1", kernel.Seller)
	manager = kernel.MustNewActor("manager-1", kernel.Manager)
	courier = kernel.MustNewActor("courier-1", kernel.Courier)

	createdAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// happyItems total 500: 2 x 150 + 4 x 50.
func happyItems() []order.Item {
	return []order.Item{
		{ProductID: "p-tomato", ProductName: "Tomatoes", Quantity: 2, Price: dec("150"), PavilionNumber: "12A"},
		{ProductID: "p-onion", ProductName: "Onions", Quantity: 4, Price: dec("50"), PavilionNumber: "12A"},
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), buyer.ID(), "12A", "Lenina 1", happyItems(), createdAt)
	require.NoError(t, err)
	return o
}

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		CustomerID:      buyer.ID(),
		PavilionNumber:  "12A",
		DeliveryAddress: "Lenina 1",
		Items:           happyItems(),
		Status:          status,
		CreatedAt:       createdAt,
		Version:         1,
	})
	require.NoError(t, err)
	return o
}

func pricedOrder(t *testing.T, price string) *order.Order {
	t.Helper()

	o := newPendingOrder(t)
	_, err := o.Apply(seller, order.Confirm)
	require.NoError(t, err)
	_, err = o.StageDeliveryPrice(manager, dec(price), []order.SettlementUnit{{Key: "12A", Amount: dec("500")}})
	require.NoError(t, err)
	_, err = o.Apply(manager, order.PriceDelivery)
	require.NoError(t, err)
	return o
}
