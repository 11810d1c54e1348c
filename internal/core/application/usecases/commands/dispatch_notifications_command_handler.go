package commands

import (
	"context"
	"log/slog"

	"market/internal/core/domain/model/notification"
	"market/internal/core/ports"
	"market/internal/pkg/clock"
	"market/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

// DispatchReport counts the outcome of one dispatch run.
type DispatchReport struct {
	Sent   int
	Failed int
	// GaveUp counts notifications that reached notification.MaxAttempts in this run.
	GaveUp int
}

// DispatchNotificationsCommandHandler drains the outbox. Delivery failures are logged and
// recorded on the notification; they never fail the run.
type DispatchNotificationsCommandHandler struct {
	uowFactory OutboxUoWFactory
	sender     ports.NotificationSender
	clock      clock.Clock
	workers    int
	logger     *slog.Logger
}

func NewDispatchNotificationsCommandHandler(
	uowFactory OutboxUoWFactory,
	sender ports.NotificationSender,
	clk clock.Clock,
	workers int,
	logger *slog.Logger,
) DispatchNotificationsCommandHandler {
	if workers <= 0 {
		workers = 1
	}
	return DispatchNotificationsCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		clock:      clk,
		workers:    workers,
		logger:     logger.With("component", "notification-dispatcher"),
	}
}

func (h DispatchNotificationsCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchNotificationsCommand,
) (DispatchReport, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchReport{}, err
	}

	pending, err := h.listPending(ctx, cmd.Limit())
	if err != nil {
		return DispatchReport{}, err
	}
	if len(pending) == 0 {
		return DispatchReport{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for _, n := range pending {
		g.Go(func() error {
			h.deliver(gctx, n)
			return nil
		})
	}
	_ = g.Wait()

	if err = h.save(ctx, pending); err != nil {
		return DispatchReport{}, err
	}

	var report DispatchReport
	for _, n := range pending {
		switch n.Status() {
		case notification.Sent:
			report.Sent++
		case notification.Failed:
			report.Failed++
			report.GaveUp++
		default:
			report.Failed++
		}
	}

	h.logger.Info("Notifications dispatched", "sent", report.Sent, "failed", report.Failed, "gave_up", report.GaveUp)
	return report, nil
}

func (h DispatchNotificationsCommandHandler) deliver(ctx context.Context, n *notification.Notification) {
	if err := h.sender.Send(ctx, n); err != nil {
		failure := errs.NewNotificationDeliveryFailedError(n.ID().String(), err)
		n.MarkFailed(err)
		h.logger.Warn("Notification delivery failed",
			"notification_id", n.ID().String(),
			"recipient", n.Recipient().String(),
			"attempts", n.Attempts(),
			"error", failure,
		)
		return
	}
	n.MarkSent(h.clock.Now())
}

func (h DispatchNotificationsCommandHandler) listPending(
	ctx context.Context,
	limit int,
) ([]*notification.Notification, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.NotificationOutbox().ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	return pending, uow.Commit(ctx)
}

func (h DispatchNotificationsCommandHandler) save(ctx context.Context, batch []*notification.Notification) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.NotificationOutbox()
	for _, n := range batch {
		if err := outbox.Update(ctx, n); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
