package commands_test

import (
	"errors"
	"testing"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/clock"
	"market/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	items := []order.Item{item("tomatoes", "12A", 2, "150")}

	t.Run("should build a valid command", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewPlaceOrderCommand(buyer, id, " 12A ", "Lenina 1", items)
		require.NoError(t, err)
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, "12A", cmd.PavilionNumber())
		assert.Equal(t, "Lenina 1", cmd.DeliveryAddress())
		assert.Len(t, cmd.Items(), 1)
	})

	t.Run("should only accept buyers", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(seller, kernel.NewUUID(), "12A", "Lenina 1", items)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should report every missing field", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(buyer, kernel.UUID{}, "", "", nil)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorContains(t, err, "pavilion number")
		assert.ErrorContains(t, err, "delivery address")
		assert.ErrorContains(t, err, "items")
	})
}

func TestPlaceOrderCommandHandler_Handle(t *testing.T) {
	items := []order.Item{
		item("tomatoes", "12A", 2, "150"),
		item("onions", "12A", 4, "50"),
	}

	t.Run("should add a pending order", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		cmd, err := commands.NewPlaceOrderCommand(buyer, id, "12A", "Lenina 1", items)
		require.NoError(t, err)

		var added *order.Order
		repo := new(MockOrderRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
				Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
				Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPlaceOrderCommandHandler(factory, clock.NewFixed(now))
		require.NoError(t, h.Handle(ctx, cmd))
		require.NotNil(t, added)
		assert.Equal(t, id, added.ID())
		assert.Equal(t, buyer.ID(), added.CustomerID())
		assert.Equal(t, order.Pending, added.Status())
		assert.Equal(t, now, added.CreatedAt())
		assert.True(t, dec("500").Equal(added.ItemsTotal()))
		uow.AssertExpectations(t)
	})

	t.Run("should not open a transaction for invalid items", func(t *testing.T) {
		cmd, err := commands.NewPlaceOrderCommand(buyer, kernel.NewUUID(), "12A", "Lenina 1",
			[]order.Item{item("tomatoes", "12A", 0, "150")})
		require.NoError(t, err)

		factory := new(MockOrderUoWFactory)
		h := commands.NewPlaceOrderCommandHandler(factory, clock.NewFixed(now))
		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrValueIsOutOfRange)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should roll back when the order cannot be added", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewPlaceOrderCommand(buyer, kernel.NewUUID(), "12A", "Lenina 1", items)
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPlaceOrderCommandHandler(factory, clock.NewFixed(now))
		require.EqualError(t, h.Handle(ctx, cmd), "add error")
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
