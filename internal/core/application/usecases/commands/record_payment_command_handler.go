package commands

import (
	"context"

	"market/internal/core/domain/services"
)

// RecordPaymentCommandHandler records a payment through the ledger and, when it was the
// last unpaid unit, notifies about the order becoming paid.
type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	ledger     services.PaymentLedger
	notifier   StatusNotifier
}

func NewRecordPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	ledger services.PaymentLedger,
	notifier StatusNotifier,
) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		notifier:   notifier,
	}
}

func (h RecordPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd RecordPaymentCommand,
) (services.PaymentOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return services.PaymentOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.PaymentOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return services.PaymentOutcome{}, err
	}

	outcome, err := h.ledger.RecordPayment(ctx, o, cmd.Actor(), cmd.Unit(), cmd.Amount(), cmd.ReceiptURL())
	if err != nil {
		return services.PaymentOutcome{}, err
	}
	if outcome.Replayed {
		return outcome, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return services.PaymentOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.PaymentOutcome{}, err
	}

	if outcome.Transition != nil {
		h.notifier.Notify(ctx, o, *outcome.Transition)
	}
	return outcome, nil
}
