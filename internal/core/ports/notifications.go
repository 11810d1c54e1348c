package ports

import (
	"context"

	"market/internal/core/domain/model/notification"
)

// NotificationOutbox stores notifications until a transport delivers them.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, notifications ...*notification.Notification) error

	// ListPending returns up to limit pending notifications, oldest first.
	ListPending(ctx context.Context, limit int) ([]*notification.Notification, error)

	// Update persists the delivery state of a notification.
	Update(ctx context.Context, n *notification.Notification) error
}

// NotificationSender delivers a notification to its recipient.
type NotificationSender interface {
	Send(ctx context.Context, n *notification.Notification) error
}
