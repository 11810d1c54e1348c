package notify

import (
	"context"
	"log/slog"

	"market/internal/core/domain/model/notification"
)

// LogSender writes notifications to the log. It is used when no webhook is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "notification-log-sender")}
}

func (s *LogSender) Send(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, n.Title(),
		"notification_id", n.ID().String(),
		"order_id", n.OrderID().String(),
		"recipient", n.Recipient().String(),
		"order_status", n.OrderStatus().String(),
		"message", n.Message(),
	)
	return nil
}
