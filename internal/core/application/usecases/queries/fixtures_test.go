package queries_test

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

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) ResolveProduct(ctx context.Context, productID string) (ports.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(ports.Product), args.Error(1)
}

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func restoreOrder(t *testing.T, customer kernel.UserID, address string, status order.Status, items []order.Item,
	mutate ...func(*order.State),
) *order.Order {
	t.Helper()

	state := order.State{
		ID:              kernel.NewUUID(),
		CustomerID:      customer,
		PavilionNumber:  "12A",
		DeliveryAddress: address,
		Items:           items,
		Status:          status,
		CreatedAt:       now,
		Version:         1,
	}
	for _, fn := range mutate {
		fn(&state)
	}

	o, err := order.RestoreOrder(state)
	require.NoError(t, err)
	return o
}
