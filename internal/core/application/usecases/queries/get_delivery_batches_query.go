package queries

import (
	"errors"
	"fmt"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
	"market/internal/pkg/errs"
	"market/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetDeliveryBatchesQueryIsNotConstructed = errors.New(
		"GetDeliveryBatchesQuery must be created via NewGetDeliveryBatchesQuery constructor",
	)
)

// GetDeliveryBatchesQuery is the manager's view of orders that travel together. Confirmed
// batches are waiting for a delivery price; ready batches are waiting for dispatch.
type GetDeliveryBatchesQuery struct { //nolint:recvcheck //using for validation
	status order.Status

	guard guard.ConstructorGuard
}

func NewGetDeliveryBatchesQuery(status order.Status) (GetDeliveryBatchesQuery, error) {
	if status != order.Confirmed && status != order.Ready {
		return GetDeliveryBatchesQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("batches are listed for %s or %s orders, not %s", order.Confirmed, order.Ready, status))
	}

	return GetDeliveryBatchesQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryBatchesQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryBatchesQueryIsNotConstructed)
}

func (q GetDeliveryBatchesQuery) Status() order.Status {
	return q.status
}

// GetDeliveryBatchesQueryResponse describes one batch.
type GetDeliveryBatchesQueryResponse struct {
	CustomerID    kernel.UserID
	Address       string
	OrderIDs      []kernel.UUID
	Pavilions     []string
	ItemsTotal    decimal.Decimal
	DeliveryPrice *decimal.Decimal
	Total         decimal.Decimal
	Receipts      []services.Receipt
}
