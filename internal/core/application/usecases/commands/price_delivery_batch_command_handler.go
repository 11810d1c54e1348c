package commands

import (
	"context"

	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
	"market/internal/pkg/errs"
)

// PriceDeliveryBatchCommandHandler prices a delivery batch in two phases. First every
// order gets the price staged and saved in its own transaction; then every staged order
// moves to payment_pending. A failure in the first phase leaves earlier orders staged
// but unmoved, so no buyer is asked to pay for half a batch.
// ReconcilePricingCommandHandler finishes batches left in that state.
type PriceDeliveryBatchCommandHandler struct {
	uowFactory OrderUoWFactory
	batcher    services.DeliveryBatcher
	notifier   StatusNotifier
}

func NewPriceDeliveryBatchCommandHandler(
	uowFactory OrderUoWFactory,
	batcher services.DeliveryBatcher,
	notifier StatusNotifier,
) PriceDeliveryBatchCommandHandler {
	return PriceDeliveryBatchCommandHandler{
		uowFactory: uowFactory,
		batcher:    batcher,
		notifier:   notifier,
	}
}

func (h PriceDeliveryBatchCommandHandler) Handle(
	ctx context.Context,
	cmd PriceDeliveryBatchCommand,
) (services.BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.BatchResult{}, err
	}

	loaded, err := loadBatch(ctx, h.uowFactory, cmd.Key(),
		order.Confirmed, order.ManagerPricing, order.PaymentPending)
	if err != nil {
		return services.BatchResult{}, err
	}

	var orders []*order.Order
	for _, o := range loaded {
		if services.Pricable(o, cmd.Price()) {
			orders = append(orders, o)
		}
	}
	if len(orders) == 0 {
		return services.BatchResult{}, errs.NewObjectNotFoundError("delivery batch", cmd.Key().Address)
	}

	result := services.BatchResult{Key: cmd.Key()}
	staged := make(map[int]*order.Order, len(orders))

	for _, o := range orders {
		from := o.Status()
		replayed, err := h.batcher.Stage(ctx, o, cmd.Actor(), cmd.Price())
		if err == nil && !replayed {
			err = saveOrder(ctx, h.uowFactory, o)
		}

		outcome := services.OrderOutcome{OrderID: o.ID(), From: from, To: from, Replayed: replayed, Err: err}
		if err == nil && !replayed {
			outcome.Staged = true
			staged[len(result.Outcomes)] = o
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if err != nil {
			return result, result.Err()
		}
	}

	for i := range result.Outcomes {
		o, ok := staged[i]
		if !ok {
			continue
		}

		transition, err := o.Apply(cmd.Actor(), order.PriceDelivery)
		if err == nil && transition.Changed() {
			err = saveOrder(ctx, h.uowFactory, o)
		}

		outcome := &result.Outcomes[i]
		if err != nil {
			outcome.Err = err
			return result, result.Err()
		}

		outcome.Staged = false
		outcome.To = transition.To
		h.notifier.Notify(ctx, o, transition)
	}

	return result, nil
}

// loadBatch reads the orders of a batch in the given statuses.
func loadBatch(
	ctx context.Context,
	factory OrderUoWFactory,
	key services.BatchKey,
	statuses ...order.Status,
) ([]*order.Order, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListByCustomer(ctx, key.CustomerID, statuses...)
	if err != nil {
		return nil, err
	}

	var batch []*order.Order
	for _, o := range orders {
		if services.KeyOf(o) == key {
			batch = append(batch, o)
		}
	}

	return batch, uow.Commit(ctx)
}
