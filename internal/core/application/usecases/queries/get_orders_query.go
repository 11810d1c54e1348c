package queries

import (
	"errors"
	"slices"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery lists orders, optionally limited to one buyer and to some statuses.
//
// Example:
//
//	query, err := NewGetOrdersQuery("buyer-1", order.PaymentPending)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UserID
	statuses   []order.Status

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery builds the query. An empty customerID lists every buyer; no statuses
// lists every status.
func NewGetOrdersQuery(customerID kernel.UserID, statuses ...order.Status) (GetOrdersQuery, error) {
	var errList []error
	for _, status := range statuses {
		errList = append(errList, status.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{
		customerID: customerID,
		statuses:   slices.Clone(statuses),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) CustomerID() kernel.UserID {
	return q.customerID
}

func (q GetOrdersQuery) Statuses() []order.Status {
	return slices.Clone(q.statuses)
}

// GetOrdersQueryResponse is one row of the order listing.
type GetOrdersQueryResponse struct {
	ID              kernel.UUID
	CustomerID      kernel.UserID
	PavilionNumber  string
	DeliveryAddress string
	Status          order.Status
	ItemsTotal      decimal.Decimal
	DeliveryPrice   *decimal.Decimal
	IsModified      bool
	CreatedAt       time.Time
}
