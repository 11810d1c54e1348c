package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/notification"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOutboxNotifier_Notify(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	confirmed := order.TransitionResult{Action: order.Confirm, From: order.Pending, To: order.Confirmed}

	t.Run("should enqueue one notification per recipient", func(t *testing.T) {
		ctx := t.Context()
		o := restore(t, order.Confirmed)

		directory := new(MockDirectory)
		directory.On("ManagerIDs", ctx).Return([]kernel.UserID{"manager-1", "manager-2"}, nil).Once()
		directory.On("SellerForPavilion", ctx, "12A").Return(kernel.UserID("seller-1"), true, nil).Once()

		var enqueued []*notification.Notification
		outbox := new(MockOutbox)
		uow := new(MockOutboxUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("NotificationOutbox").Return(outbox).Once(),
			outbox.On("Enqueue", ctx, mock.Anything).
				Run(func(args mock.Arguments) { enqueued = args.Get(1).([]*notification.Notification) }).
				Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockOutboxUoWFactory)
		factory.On("Create").Return(uow).Once()

		n := commands.NewOutboxNotifier(factory, directory, new(MockCatalog), clock.NewFixed(now), logger)
		n.Notify(ctx, o, confirmed)

		require.Len(t, enqueued, 3)
		recipients := make([]kernel.UserID, 0, len(enqueued))
		for _, item := range enqueued {
			recipients = append(recipients, item.Recipient())
			assert.Equal(t, o.ID(), item.OrderID())
			assert.Equal(t, order.Confirmed, item.OrderStatus())
			assert.Equal(t, notification.Pending, item.Status())
			assert.Equal(t, now, item.CreatedAt())
		}
		assert.ElementsMatch(t, []kernel.UserID{buyer.ID(), "manager-1", "manager-2"}, recipients)
		factory.AssertExpectations(t)
		directory.AssertExpectations(t)
	})

	t.Run("should ignore replays", func(t *testing.T) {
		factory := new(MockOutboxUoWFactory)
		directory := new(MockDirectory)

		n := commands.NewOutboxNotifier(factory, directory, new(MockCatalog), clock.NewFixed(now), logger)
		n.Notify(t.Context(), restore(t, order.Confirmed), order.TransitionResult{
			Action: order.Confirm, From: order.Confirmed, To: order.Confirmed, Replayed: true,
		})

		factory.AssertNotCalled(t, "Create")
		directory.AssertNotCalled(t, "ManagerIDs", mock.Anything)
	})

	t.Run("should still tell the buyer when the directory is down", func(t *testing.T) {
		ctx := t.Context()
		o := restore(t, order.Confirmed)

		directory := new(MockDirectory)
		directory.On("ManagerIDs", ctx).Return([]kernel.UserID(nil), errors.New("directory down")).Once()
		directory.On("SellerForPavilion", ctx, "12A").
			Return(kernel.UserID(""), false, errors.New("directory down")).Once()

		outbox := new(MockOutbox)
		uow := new(MockOutboxUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("NotificationOutbox").Return(outbox).Once()
		outbox.On("Enqueue", ctx, mock.MatchedBy(func(batch []*notification.Notification) bool {
			return len(batch) == 1 && batch[0].Recipient() == buyer.ID()
		})).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOutboxUoWFactory)
		factory.On("Create").Return(uow).Once()

		n := commands.NewOutboxNotifier(factory, directory, new(MockCatalog), clock.NewFixed(now), logger)
		n.Notify(ctx, o, confirmed)

		outbox.AssertExpectations(t)
	})

	t.Run("should swallow outbox failures", func(t *testing.T) {
		ctx := t.Context()
		o := restore(t, order.Cancelled)

		directory := new(MockDirectory)
		directory.On("ManagerIDs", ctx).Return([]kernel.UserID{}, nil).Once()
		directory.On("SellerForPavilion", ctx, "12A").Return(kernel.UserID("seller-1"), true, nil).Once()

		outbox := new(MockOutbox)
		uow := new(MockOutboxUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("NotificationOutbox").Return(outbox).Once()
		outbox.On("Enqueue", ctx, mock.Anything).Return(errors.New("disk full")).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOutboxUoWFactory)
		factory.On("Create").Return(uow).Once()

		n := commands.NewOutboxNotifier(factory, directory, new(MockCatalog), clock.NewFixed(now), logger)
		assert.NotPanics(t, func() {
			n.Notify(ctx, o, order.TransitionResult{Action: order.Reject, From: order.Pending, To: order.Cancelled})
		})
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
