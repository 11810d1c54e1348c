// Package orderrepo persists the order aggregate. Line items and settlement records are
// stored as jsonb next to the scalar columns; the version column guards every update.
package orderrepo

import (
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row of the orders table. ItemsTotal is denormalized for listings.
type OrderDTO struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primaryKey"`
	CustomerID         string                `gorm:"type:varchar(64);not null;index"`
	PavilionNumber     string                `gorm:"type:varchar(32);not null"`
	DeliveryAddress    string                `gorm:"type:text;not null"`
	Items              []ItemDTO             `gorm:"type:jsonb;serializer:json;not null"`
	ItemsTotal         decimal.Decimal       `gorm:"type:numeric;not null"`
	Status             string                `gorm:"type:varchar(32);not null;index"`
	DeliveryPrice      decimal.NullDecimal   `gorm:"type:numeric"`
	Payments           map[string]PaymentDTO `gorm:"type:jsonb;serializer:json"`
	IsModified         bool                  `gorm:"not null;default:false"`
	ModificationReason string                `gorm:"type:text"`
	OriginalTotal      decimal.NullDecimal   `gorm:"type:numeric"`
	CustomerApproved   bool                  `gorm:"not null;default:false"`
	ModifiedAt         *time.Time
	ManagerID          *string   `gorm:"type:varchar(64)"`
	CourierID          *string   `gorm:"type:varchar(64)"`
	CreatedAt          time.Time `gorm:"not null;index"`
	Version            int64     `gorm:"not null;default:1"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type ItemDTO struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	PavilionNumber string          `json:"pavilionNumber,omitempty"`
}

type PaymentDTO struct {
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	ReceiptURL string          `json:"receiptUrl,omitempty"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.State()

	items := make([]ItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, ItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			Price:          item.Price,
			PavilionNumber: item.PavilionNumber,
		})
	}

	payments := make(map[string]PaymentDTO, len(s.Payments))
	for key, record := range s.Payments {
		payments[key] = PaymentDTO{
			Status:     string(record.Status),
			Amount:     record.Amount,
			ReceiptURL: record.ReceiptURL,
			PaidAt:     record.PaidAt,
		}
	}

	return OrderDTO{
		ID:                 s.ID.Bytes(),
		CustomerID:         s.CustomerID.String(),
		PavilionNumber:     s.PavilionNumber,
		DeliveryAddress:    s.DeliveryAddress,
		Items:              items,
		ItemsTotal:         o.ItemsTotal(),
		Status:             s.Status.String(),
		DeliveryPrice:      nullDecimal(s.DeliveryPrice),
		Payments:           payments,
		IsModified:         s.IsModified,
		ModificationReason: s.ModificationReason,
		OriginalTotal:      nullDecimal(s.OriginalTotal),
		CustomerApproved:   s.CustomerApproved,
		ModifiedAt:         s.ModifiedAt,
		ManagerID:          userIDString(s.ManagerID),
		CourierID:          userIDString(s.CourierID),
		CreatedAt:          s.CreatedAt,
		Version:            s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			Price:          item.Price,
			PavilionNumber: item.PavilionNumber,
		})
	}

	payments := make(map[string]order.PaymentRecord, len(dto.Payments))
	for key, record := range dto.Payments {
		payments[key] = order.PaymentRecord{
			Status:     order.PaymentStatus(record.Status),
			Amount:     record.Amount,
			ReceiptURL: record.ReceiptURL,
			PaidAt:     utc(record.PaidAt),
		}
	}

	return order.RestoreOrder(order.State{
		ID:                 id,
		CustomerID:         kernel.UserID(dto.CustomerID),
		PavilionNumber:     dto.PavilionNumber,
		DeliveryAddress:    dto.DeliveryAddress,
		Items:              items,
		Status:             status,
		DeliveryPrice:      decimalPtr(dto.DeliveryPrice),
		Payments:           payments,
		IsModified:         dto.IsModified,
		ModificationReason: dto.ModificationReason,
		OriginalTotal:      decimalPtr(dto.OriginalTotal),
		CustomerApproved:   dto.CustomerApproved,
		ModifiedAt:         utc(dto.ModifiedAt),
		ManagerID:          userIDPtr(dto.ManagerID),
		CourierID:          userIDPtr(dto.CourierID),
		CreatedAt:          dto.CreatedAt.UTC(),
		Version:            dto.Version,
	})
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func userIDString(id *kernel.UserID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func userIDPtr(s *string) *kernel.UserID {
	if s == nil {
		return nil
	}
	id := kernel.UserID(*s)
	return &id
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
