package services_test

import (
	"context"
	"testing"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) ResolveProduct(ctx context.Context, productID string) (ports.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(ports.Product), args.Error(1)
}

var (
	buyer   = kernel.MustNewActor("buyer-1", kernel.Buyer)
	seller  = kernel.MustNewActor("seller-1", kernel.Seller)
	manager = kernel.MustNewActor("manager-1", kernel.Manager)

	now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id, pavilion string, quantity int, price string) order.Item {
	return order.Item{ProductID: id, ProductName: id, Quantity: quantity, Price: dec(price), PavilionNumber: pavilion}
}

type orderParams struct {
	customer kernel.UserID
	address  string
	pavilion string
	items    []order.Item
	status   order.Status
	price    *decimal.Decimal
	payments map[string]order.PaymentRecord
}

func restore(t *testing.T, p orderParams) *order.Order {
	t.Helper()

	if p.customer == "" {
		p.customer = buyer.ID()
	}
	if p.address == "" {
		p.address = "Lenina 1"
	}
	if p.pavilion == "" {
		p.pavilion = "12A"
	}

	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		CustomerID:      p.customer,
		PavilionNumber:  p.pavilion,
		DeliveryAddress: p.address,
		Items:           p.items,
		Status:          p.status,
		DeliveryPrice:   p.price,
		Payments:        p.payments,
		CreatedAt:       now,
		Version:         1,
	})
	require.NoError(t, err)
	return o
}

func price(s string) *decimal.Decimal {
	p := dec(s)
	return &p
}

func pending(amount string) order.PaymentRecord {
	return order.PaymentRecord{Status: order.PaymentPendingStatus, Amount: dec(amount)}
}

func paid(amount string) order.PaymentRecord {
	at := now
	return order.PaymentRecord{Status: order.PaymentPaidStatus, Amount: dec(amount), PaidAt: &at}
}
