package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"
)

// MaxAttempts is how many transport failures a notification survives before it is
// given up on.
const MaxAttempts = 5

var ErrNotificationIsNotConstructed = errors.New(
	"Notification must be created via NewNotification or RestoreNotification")

type Status int

const (
	Pending Status = iota
	Sent
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) Validate() error {
	if s < Pending || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%d is not valid", s))
	}
	return nil
}

// Notification is one recipient's message about one order transition.
type Notification struct {
	id          kernel.UUID
	orderID     kernel.UUID
	recipient   kernel.UserID
	orderStatus order.Status
	title       string
	message     string

	status        Status
	attempts      int
	failureReason string
	createdAt     time.Time
	sentAt        *time.Time

	isConstructed bool
}

// NewNotification creates a pending notification.
func NewNotification(
	id kernel.UUID,
	orderID kernel.UUID,
	recipient kernel.UserID,
	orderStatus order.Status,
	title string,
	message string,
	createdAt time.Time,
) (*Notification, error) {
	var titleErr error
	if strings.TrimSpace(title) == "" {
		titleErr = errs.NewValueIsRequiredError("notification title")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		recipient.Validate(),
		orderStatus.Validate(),
		titleErr,
	); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		orderID:       orderID,
		recipient:     recipient,
		orderStatus:   orderStatus,
		title:         title,
		message:       message,
		status:        Pending,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreNotification rebuilds a notification loaded from the outbox.
func RestoreNotification(
	id kernel.UUID,
	orderID kernel.UUID,
	recipient kernel.UserID,
	orderStatus order.Status,
	title string,
	message string,
	status Status,
	attempts int,
	failureReason string,
	createdAt time.Time,
	sentAt *time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, orderID, recipient, orderStatus, title, message, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	n.status = status
	n.attempts = attempts
	n.failureReason = failureReason
	n.sentAt = sentAt
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) OrderID() kernel.UUID {
	return n.orderID
}

func (n *Notification) Recipient() kernel.UserID {
	return n.recipient
}

// OrderStatus is the status the order entered.
func (n *Notification) OrderStatus() order.Status {
	return n.orderStatus
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Status() Status {
	return n.status
}

func (n *Notification) Attempts() int {
	return n.attempts
}

func (n *Notification) FailureReason() string {
	return n.failureReason
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) SentAt() *time.Time {
	return n.sentAt
}

// MarkSent records a successful delivery. Sent notifications stay sent.
func (n *Notification) MarkSent(now time.Time) {
	if n.status == Sent {
		return
	}
	n.status = Sent
	n.attempts++
	n.failureReason = ""
	n.sentAt = &now
}

// MarkFailed records a failed attempt. The notification stays pending until it runs
// out of attempts.
func (n *Notification) MarkFailed(cause error) {
	if n.status != Pending {
		return
	}
	n.attempts++
	if cause != nil {
		n.failureReason = cause.Error()
	}
	if n.attempts >= MaxAttempts {
		n.status = Failed
	}
}
