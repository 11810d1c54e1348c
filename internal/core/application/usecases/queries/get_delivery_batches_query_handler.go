package queries

import (
	"context"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/services"
)

type GetDeliveryBatchesQueryHandler struct {
	orders  OrderReader
	batcher services.DeliveryBatcher
}

func NewGetDeliveryBatchesQueryHandler(orders OrderReader, batcher services.DeliveryBatcher) GetDeliveryBatchesQueryHandler {
	return GetDeliveryBatchesQueryHandler{
		orders:  orders,
		batcher: batcher,
	}
}

// Handle returns the batches in order of their oldest order.
func (h GetDeliveryBatchesQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryBatchesQuery,
) ([]GetDeliveryBatchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.ListByStatus(ctx, query.Status())
	if err != nil {
		return nil, err
	}

	batches := h.batcher.Batch(orders, query.Status())
	responses := make([]GetDeliveryBatchesQueryResponse, 0, len(batches))
	for _, batch := range batches {
		ids := make([]kernel.UUID, 0, len(batch.Orders))
		for _, o := range batch.Orders {
			ids = append(ids, o.ID())
		}

		responses = append(responses, GetDeliveryBatchesQueryResponse{
			CustomerID:    batch.Key.CustomerID,
			Address:       batch.Address,
			OrderIDs:      ids,
			Pavilions:     batch.Pavilions,
			ItemsTotal:    batch.ItemsTotal,
			DeliveryPrice: batch.DeliveryPrice,
			Total:         batch.Total(),
			Receipts:      batch.Receipts,
		})
	}

	return responses, nil
}
