package queries

import (
	"errors"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/guard"
)

var (
	ErrGetPaymentSummaryQueryIsNotConstructed = errors.New(
		"GetPaymentSummaryQuery must be created via NewGetPaymentSummaryQuery constructor",
	)
)

// GetPaymentSummaryQuery shows what a buyer owes per settlement unit of one order.
type GetPaymentSummaryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPaymentSummaryQuery(orderID kernel.UUID) (GetPaymentSummaryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetPaymentSummaryQuery{}, err
	}

	return GetPaymentSummaryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetPaymentSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetPaymentSummaryQueryIsNotConstructed)
}

func (q GetPaymentSummaryQuery) OrderID() kernel.UUID {
	return q.orderID
}
