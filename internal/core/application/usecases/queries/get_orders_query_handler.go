package queries

import (
	"context"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler reads the order listing straight from the orders table.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle returns matching orders oldest first.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id, pavilion_number, delivery_address, status, items_total, delivery_price, is_modified, created_at")

	if query.CustomerID() != "" {
		tx = tx.Where("customer_id = ?", query.CustomerID().String())
	}
	if statuses := query.Statuses(); len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, status := range statuses {
			names = append(names, status.String())
		}
		tx = tx.Where("status IN ?", names)
	}

	rows, err := tx.Order("created_at, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp          GetOrdersQueryResponse
			id            uuid.UUID
			customerID    string
			status        string
			deliveryPrice decimal.NullDecimal
		)

		err = rows.Scan(
			&id,
			&customerID,
			&resp.PavilionNumber,
			&resp.DeliveryAddress,
			&status,
			&resp.ItemsTotal,
			&deliveryPrice,
			&resp.IsModified,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.CustomerID = kernel.UserID(customerID)

		resp.Status, err = order.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		if deliveryPrice.Valid {
			price := deliveryPrice.Decimal
			resp.DeliveryPrice = &price
		}
		resp.CreatedAt = resp.CreatedAt.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
