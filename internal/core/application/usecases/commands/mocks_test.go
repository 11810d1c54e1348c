package commands_test

import (
	"context"
	"testing"
	"time"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/notification"
	"market/internal/core/domain/model/order"
	"market/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(
	ctx context.Context,
	customerID kernel.UserID,
	statuses ...order.Status,
) ([]*order.Order, error) {
	args := m.Called(ctx, customerID, statuses)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Enqueue(ctx context.Context, notifications ...*notification.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockOutbox) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockOutbox) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockOutboxUoW struct{ mock.Mock }

func (m *MockOutboxUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) NotificationOutbox() ports.NotificationOutbox {
	args := m.Called()
	return args.Get(0).(ports.NotificationOutbox)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, o *order.Order, result order.TransitionResult) {
	m.Called(ctx, o, result)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) ManagerIDs(ctx context.Context) ([]kernel.UserID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]kernel.UserID), args.Error(1)
}

func (m *MockDirectory) SellerForPavilion(ctx context.Context, pavilionNumber string) (kernel.UserID, bool, error) {
	args := m.Called(ctx, pavilionNumber)
	return args.Get(0).(kernel.UserID), args.Bool(1), args.Error(2)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) ResolveProduct(ctx context.Context, productID string) (ports.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(ports.Product), args.Error(1)
}

var (
	buyer   = kernel.MustNewActor("buyer-1", kernel.Buyer)
	seller  = kernel.MustNewActor("seller-1", kernel.Seller)
	manager = kernel.MustNewActor("manager-1", kernel.Manager)
	courier = kernel.MustNewActor("courier-1", kernel.Courier)

	now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id, pavilion string, quantity int, price string) order.Item {
	return order.Item{ProductID: id, ProductName: id, Quantity: quantity, Price: dec(price), PavilionNumber: pavilion}
}

// restore builds an order for buyer-1 at "Lenina 1" in pavilion 12A. Items carry their
// pavilion so grouping never reaches the catalog.
func restore(t *testing.T, status order.Status, mutate ...func(*order.State)) *order.Order {
	t.Helper()

	state := order.State{
		ID:              kernel.NewUUID(),
		CustomerID:      buyer.ID(),
		PavilionNumber:  "12A",
		DeliveryAddress: "Lenina 1",
		Items: []order.Item{
			item("tomatoes", "12A", 2, "150"),
			item("onions", "12A", 4, "50"),
		},
		Status:    status,
		CreatedAt: now,
		Version:   1,
	}
	for _, fn := range mutate {
		fn(&state)
	}

	o, err := order.RestoreOrder(state)
	require.NoError(t, err)
	return o
}

func withPrice(price string, payments map[string]order.PaymentRecord) func(*order.State) {
	return func(s *order.State) {
		p := dec(price)
		s.DeliveryPrice = &p
		s.Payments = payments
		id := manager.ID()
		s.ManagerID = &id
	}
}

func pendingRecord(amount string) order.PaymentRecord {
	return order.PaymentRecord{Status: order.PaymentPendingStatus, Amount: dec(amount)}
}

func paidRecord(amount string) order.PaymentRecord {
	at := now
	return order.PaymentRecord{Status: order.PaymentPaidStatus, Amount: dec(amount), PaidAt: &at}
}

// expectSave registers one save transaction on a fresh unit of work.
func expectSave(ctx context.Context, repo *MockOrderRepository, o *order.Order, updateErr error) *MockOrderUoW {
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Update", ctx, o).Return(updateErr).Once()
	if updateErr == nil {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow
}

// expectList registers a read transaction returning orders from ListByCustomer.
func expectList(
	ctx context.Context,
	repo *MockOrderRepository,
	customer kernel.UserID,
	statuses []order.Status,
	orders []*order.Order,
) *MockOrderUoW {
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("ListByCustomer", ctx, customer, statuses).Return(orders, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow
}
