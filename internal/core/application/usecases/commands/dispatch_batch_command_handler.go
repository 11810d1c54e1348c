package commands

import (
	"context"

	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
	"market/internal/pkg/errs"
)

// DispatchBatchCommandHandler hands every ready order of a batch to delivery, one
// transaction per order. It stops at the first failure; orders already dispatched stay
// dispatched.
type DispatchBatchCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
}

func NewDispatchBatchCommandHandler(uowFactory OrderUoWFactory, notifier StatusNotifier) DispatchBatchCommandHandler {
	return DispatchBatchCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h DispatchBatchCommandHandler) Handle(ctx context.Context, cmd DispatchBatchCommand) (services.BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.BatchResult{}, err
	}

	orders, err := loadBatch(ctx, h.uowFactory, cmd.Key(), order.Ready)
	if err != nil {
		return services.BatchResult{}, err
	}
	if len(orders) == 0 {
		return services.BatchResult{}, errs.NewObjectNotFoundError("delivery batch", cmd.Key().Address)
	}

	result := services.BatchResult{Key: cmd.Key()}
	for _, o := range orders {
		from := o.Status()
		transition, err := o.Apply(cmd.Actor(), order.Dispatch)
		if err == nil && transition.Changed() {
			err = saveOrder(ctx, h.uowFactory, o)
		}

		outcome := services.OrderOutcome{OrderID: o.ID(), From: from, To: from, Err: err}
		if err == nil {
			outcome.To = transition.To
			outcome.Replayed = transition.Replayed
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if err != nil {
			return result, result.Err()
		}
		h.notifier.Notify(ctx, o, transition)
	}

	return result, nil
}
