package queries

import (
	"context"

	"market/internal/core/domain/services"
)

type GetPaymentSummaryQueryHandler struct {
	orders OrderReader
	ledger services.PaymentLedger
}

func NewGetPaymentSummaryQueryHandler(orders OrderReader, ledger services.PaymentLedger) GetPaymentSummaryQueryHandler {
	return GetPaymentSummaryQueryHandler{
		orders: orders,
		ledger: ledger,
	}
}

// Handle groups the order by pavilion and reports every unit's amount and state.
// Products missing from the catalog are listed in the summary instead of failing it.
func (h GetPaymentSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetPaymentSummaryQuery,
) (services.PaymentSummary, error) {
	if err := query.Validate(); err != nil {
		return services.PaymentSummary{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return services.PaymentSummary{}, err
	}

	grouping, err := h.ledger.Group(ctx, o)
	if err != nil {
		return services.PaymentSummary{}, err
	}

	return h.ledger.Summary(o, grouping), nil
}
