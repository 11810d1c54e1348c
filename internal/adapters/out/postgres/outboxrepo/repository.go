// Package outboxrepo stores notifications until a transport delivers them.
package outboxrepo

import (
	"context"
	"fmt"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/notification"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient     string    `gorm:"type:varchar(64);not null"`
	OrderStatus   string    `gorm:"type:varchar(32);not null"`
	Title         string    `gorm:"type:text;not null"`
	Message       string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(16);not null;index"`
	Attempts      int       `gorm:"not null"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null;index"`
	SentAt        *time.Time
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormNotificationOutbox implements ports.NotificationOutbox using GORM.
type GormNotificationOutbox struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormNotificationOutbox(db *gorm.DB, tracker aggregateTracker) *GormNotificationOutbox {
	return &GormNotificationOutbox{
		db:      db,
		tracker: tracker,
	}
}

func (o *GormNotificationOutbox) Enqueue(ctx context.Context, notifications ...*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(n))
	}

	if err := o.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, n := range notifications {
		o.tracker.TrackAggregate(n.ID(), n)
	}
	return nil
}

// ListPending returns up to limit pending notifications, oldest first.
func (o *GormNotificationOutbox) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []NotificationDTO
	err := o.db.WithContext(ctx).
		Where("status = ?", notification.Pending.String()).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	pending := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		pending = append(pending, n)
	}
	return pending, nil
}

// Update stores the delivery state. Content columns are never rewritten.
func (o *GormNotificationOutbox) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	result := o.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Bytes()).
		Updates(map[string]any{
			"status":         n.Status().String(),
			"attempts":       n.Attempts(),
			"failure_reason": n.FailureReason(),
			"sent_at":        n.SentAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}

	o.tracker.TrackAggregate(n.ID(), n)
	return nil
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID().Bytes(),
		OrderID:       n.OrderID().Bytes(),
		Recipient:     n.Recipient().String(),
		OrderStatus:   n.OrderStatus().String(),
		Title:         n.Title(),
		Message:       n.Message(),
		Status:        n.Status().String(),
		Attempts:      n.Attempts(),
		FailureReason: n.FailureReason(),
		CreatedAt:     n.CreatedAt(),
		SentAt:        n.SentAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	orderStatus, err := order.ParseStatus(dto.OrderStatus)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var sentAt *time.Time
	if dto.SentAt != nil {
		t := dto.SentAt.UTC()
		sentAt = &t
	}

	return notification.RestoreNotification(
		id,
		orderID,
		kernel.UserID(dto.Recipient),
		orderStatus,
		dto.Title,
		dto.Message,
		status,
		dto.Attempts,
		dto.FailureReason,
		dto.CreatedAt.UTC(),
		sentAt,
	)
}

func parseStatus(name string) (notification.Status, error) {
	for _, s := range []notification.Status{notification.Pending, notification.Sent, notification.Failed} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%q is not valid", name))
}
