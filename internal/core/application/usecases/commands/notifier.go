package commands

import (
	"context"
	"log/slog"
	"slices"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/notification"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
	"market/internal/core/ports"
	"market/internal/pkg/clock"
)

// OutboxNotifier routes status changes and stores the resulting notifications in the
// outbox. DispatchNotificationsCommandHandler delivers them later.
type OutboxNotifier struct {
	uowFactory OutboxUoWFactory
	directory  ports.UserDirectory
	catalog    ports.ProductCatalog
	grouper    services.PavilionGrouper
	router     services.NotificationRouter
	clock      clock.Clock
	logger     *slog.Logger
}

func NewOutboxNotifier(
	uowFactory OutboxUoWFactory,
	directory ports.UserDirectory,
	catalog ports.ProductCatalog,
	clk clock.Clock,
	logger *slog.Logger,
) *OutboxNotifier {
	return &OutboxNotifier{
		uowFactory: uowFactory,
		directory:  directory,
		catalog:    catalog,
		grouper:    services.NewPavilionGrouper(),
		router:     services.NewNotificationRouter(),
		clock:      clk,
		logger:     logger.With("component", "outbox-notifier"),
	}
}

// Notify enqueues notifications for a committed transition. Replays are ignored.
func (n *OutboxNotifier) Notify(ctx context.Context, o *order.Order, result order.TransitionResult) {
	if !result.Changed() {
		return
	}

	log := n.logger.With("order_id", o.ID().String(), "status", result.To.String())

	notices := n.router.Route(o, result.From, result.To, n.audience(ctx, o, log))
	if len(notices) == 0 {
		return
	}

	now := n.clock.Now()
	var batch []*notification.Notification
	for _, notice := range notices {
		for _, recipient := range notice.Recipients {
			item, err := notification.NewNotification(
				kernel.NewUUID(), o.ID(), recipient, result.To, notice.Title, notice.Text, now)
			if err != nil {
				log.Error("Failed to build notification", "recipient", recipient.String(), "error", err)
				continue
			}
			batch = append(batch, item)
		}
	}

	if err := n.enqueue(ctx, batch); err != nil {
		log.Error("Failed to enqueue notifications", "count", len(batch), "error", err)
		return
	}

	log.Debug("Notifications enqueued", "count", len(batch))
}

func (n *OutboxNotifier) enqueue(ctx context.Context, batch []*notification.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	uow := n.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.NotificationOutbox().Enqueue(ctx, batch...); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// audience resolves managers and pavilion sellers. Lookup failures shrink the audience
// instead of failing.
func (n *OutboxNotifier) audience(ctx context.Context, o *order.Order, log *slog.Logger) services.Audience {
	audience := services.Audience{PavilionSellers: map[string]kernel.UserID{}}

	managers, err := n.directory.ManagerIDs(ctx)
	if err != nil {
		log.Warn("Failed to list managers", "error", err)
	}
	audience.Managers = managers

	pavilions := []string{o.PavilionNumber()}
	grouping, err := n.grouper.GroupByPavilion(ctx, o, n.catalog)
	if err != nil {
		log.Warn("Failed to group order by pavilion", "error", err)
	}
	for _, group := range grouping.Groups {
		if group.SellerID != "" {
			audience.PavilionSellers[group.PavilionNumber] = group.SellerID
			continue
		}
		if !slices.Contains(pavilions, group.PavilionNumber) {
			pavilions = append(pavilions, group.PavilionNumber)
		}
	}

	for _, pavilion := range pavilions {
		if _, known := audience.PavilionSellers[pavilion]; known {
			continue
		}
		sellerID, ok, err := n.directory.SellerForPavilion(ctx, pavilion)
		if err != nil {
			log.Warn("Failed to find pavilion seller", "pavilion", pavilion, "error", err)
			continue
		}
		if ok {
			audience.PavilionSellers[pavilion] = sellerID
		}
	}

	return audience
}
