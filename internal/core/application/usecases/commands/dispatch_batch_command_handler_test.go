package commands_test

import (
	"testing"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDispatchBatchCommandHandler_Handle(t *testing.T) {
	ready := []order.Status{order.Ready}

	t.Run("should dispatch every ready order of the batch", func(t *testing.T) {
		ctx := t.Context()
		first := restore(t, order.Ready)
		second := restore(t, order.Ready)

		cmd, err := commands.NewDispatchBatchCommand(courier, buyer.ID(), "LENINA 1")
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		notifier := new(MockNotifier)
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(expectList(ctx, repo, buyer.ID(), ready, []*order.Order{first, second})).Once()
		factory.On("Create").Return(expectSave(ctx, repo, first, nil)).Once()
		factory.On("Create").Return(expectSave(ctx, repo, second, nil)).Once()
		notifier.On("Notify", ctx, mock.AnythingOfType("*order.Order"), order.TransitionResult{
			Action: order.Dispatch, From: order.Ready, To: order.Delivering,
		}).Return().Twice()

		h := commands.NewDispatchBatchCommandHandler(factory, notifier)
		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Succeeded())
		for _, o := range []*order.Order{first, second} {
			assert.Equal(t, order.Delivering, o.Status())
			require.NotNil(t, o.CourierID())
			assert.Equal(t, courier.ID(), *o.CourierID())
		}
		factory.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("should stop at the first failed order", func(t *testing.T) {
		ctx := t.Context()
		first := restore(t, order.Ready)
		second := restore(t, order.Ready)
		third := restore(t, order.Ready)

		cmd, err := commands.NewDispatchBatchCommand(manager, buyer.ID(), "Lenina 1")
		require.NoError(t, err)

		conflict := errs.NewPersistenceConflictError("order", second.ID().String())
		repo := new(MockOrderRepository)
		notifier := new(MockNotifier)
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(expectList(ctx, repo, buyer.ID(), ready,
			[]*order.Order{first, second, third})).Once()
		factory.On("Create").Return(expectSave(ctx, repo, first, nil)).Once()
		factory.On("Create").Return(expectSave(ctx, repo, second, conflict)).Once()
		notifier.On("Notify", ctx, first, mock.Anything).Return().Once()

		h := commands.NewDispatchBatchCommandHandler(factory, notifier)
		result, err := h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrPersistenceConflict)
		require.Len(t, result.Outcomes, 2)
		assert.Equal(t, order.Delivering, result.Outcomes[0].To)
		assert.Equal(t, order.Ready, third.Status())
		factory.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("should refuse buyers", func(t *testing.T) {
		ctx := t.Context()
		o := restore(t, order.Ready)
		cmd, err := commands.NewDispatchBatchCommand(buyer, buyer.ID(), "Lenina 1")
		require.NoError(t, err)

		repo := new(MockOrderRepository)
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(expectList(ctx, repo, buyer.ID(), ready, []*order.Order{o})).Once()

		h := commands.NewDispatchBatchCommandHandler(factory, new(MockNotifier))
		result, err := h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Zero(t, result.Succeeded())
		assert.Equal(t, order.Ready, o.Status())
	})
}
