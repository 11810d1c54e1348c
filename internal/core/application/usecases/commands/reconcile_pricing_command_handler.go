package commands

import (
	"context"
	"log/slog"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
)

// ReconcileReport counts what a reconcile run did.
type ReconcileReport struct {
	// Advanced is the number of orders moved to payment_pending.
	Advanced int
	// Skipped lists batches whose staged prices do not agree. A manager has to price
	// them again.
	Skipped []services.BatchKey
	Failed  int
}

// ReconcilePricingCommandHandler looks for orders with a staged delivery price and, when
// every order of the batch agrees on it, moves them to payment_pending on behalf of the
// manager who staged the price.
type ReconcilePricingCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   StatusNotifier
	logger     *slog.Logger
}

func NewReconcilePricingCommandHandler(
	uowFactory OrderUoWFactory,
	notifier StatusNotifier,
	logger *slog.Logger,
) ReconcilePricingCommandHandler {
	return ReconcilePricingCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "pricing-reconciler"),
	}
}

func (h ReconcilePricingCommandHandler) Handle(ctx context.Context, cmd ReconcilePricingCommand) (ReconcileReport, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileReport{}, err
	}

	orders, err := h.listAwaitingPrice(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	var (
		keys    []services.BatchKey
		batches = map[services.BatchKey][]*order.Order{}
		staged  = map[services.BatchKey]bool{}
	)
	for _, o := range orders {
		key := services.KeyOf(o)
		if _, seen := batches[key]; !seen {
			keys = append(keys, key)
		}
		batches[key] = append(batches[key], o)
		if o.HasStagedPrice() {
			staged[key] = true
		}
	}

	var report ReconcileReport
	for _, key := range keys {
		if !staged[key] {
			continue
		}

		log := h.logger.With("customer_id", key.CustomerID.String(), "address", key.Address)
		price, ok := services.StagedConsensus(batches[key])
		if !ok {
			log.Warn("Staged delivery prices disagree, batch needs pricing again")
			report.Skipped = append(report.Skipped, key)
			continue
		}

		for _, o := range batches[key] {
			if err = h.advance(ctx, o); err != nil {
				log.Error("Failed to apply staged delivery price",
					"order_id", o.ID().String(), "price", price.String(), "error", err)
				report.Failed++
				break
			}
			report.Advanced++
		}
	}

	if report.Advanced > 0 || len(report.Skipped) > 0 || report.Failed > 0 {
		h.logger.Info("Pricing reconciled",
			"advanced", report.Advanced, "skipped", len(report.Skipped), "failed", report.Failed)
	}
	return report, nil
}

func (h ReconcilePricingCommandHandler) advance(ctx context.Context, o *order.Order) error {
	managerID := o.ManagerID()
	if managerID == nil {
		return errNoStagingManager
	}

	manager, err := kernel.NewActor(*managerID, kernel.Manager)
	if err != nil {
		return err
	}

	transition, err := o.Apply(manager, order.PriceDelivery)
	if err != nil {
		return err
	}
	if !transition.Changed() {
		return nil
	}

	if err = saveOrder(ctx, h.uowFactory, o); err != nil {
		return err
	}

	h.notifier.Notify(ctx, o, transition)
	return nil
}

func (h ReconcilePricingCommandHandler) listAwaitingPrice(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListByStatus(ctx, order.Confirmed, order.ManagerPricing)
	if err != nil {
		return nil, err
	}

	return orders, uow.Commit(ctx)
}
