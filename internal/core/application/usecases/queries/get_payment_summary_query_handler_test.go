package queries_test

import (
	"testing"

	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"
	"market/internal/core/ports"
	"market/internal/pkg/clock"
	"market/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetPaymentSummaryQuery(t *testing.T) {
	_, err := queries.NewGetPaymentSummaryQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	id := kernel.NewUUID()
	query, err := queries.NewGetPaymentSummaryQuery(id)
	require.NoError(t, err)
	assert.Equal(t, id, query.OrderID())
}

func TestGetPaymentSummaryQueryHandler_Handle(t *testing.T) {
	t.Run("should summarize every settlement unit", func(t *testing.T) {
		ctx := t.Context()
		paidAt := now
		o := restoreOrder(t, "buyer-1", "Lenina 1", order.PaymentPending, []order.Item{
			{ProductID: "tomatoes", ProductName: "Tomatoes", Quantity: 2, Price: dec("150"), PavilionNumber: "12A"},
			{ProductID: "cheese", ProductName: "Cheese", Quantity: 1, Price: dec("200")},
			{ProductID: "mystery", ProductName: "Mystery", Quantity: 1, Price: dec("40")},
		}, func(s *order.State) {
			price := dec("100")
			s.DeliveryPrice = &price
			s.Payments = map[string]order.PaymentRecord{
				"12A":                 {Status: order.PaymentPaidStatus, Amount: dec("300"), PaidAt: &paidAt},
				"7B":                  {Status: order.PaymentPendingStatus, Amount: dec("200")},
				order.DeliveryUnitKey: {Status: order.PaymentPendingStatus, Amount: dec("100")},
			}
		})

		catalog := new(MockCatalog)
		catalog.On("ResolveProduct", ctx, "cheese").
			Return(ports.Product{ID: "cheese", PavilionNumber: "7B", SellerID: "seller-7b"}, nil).Once()
		catalog.On("ResolveProduct", ctx, "mystery").
			Return(ports.Product{}, errs.NewObjectNotFoundError("product", "mystery")).Once()

		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Once()

		query, err := queries.NewGetPaymentSummaryQuery(o.ID())
		require.NoError(t, err)

		h := queries.NewGetPaymentSummaryQueryHandler(reader, services.NewPaymentLedger(catalog, clock.NewFixed(now)))
		summary, err := h.Handle(ctx, query)
		require.NoError(t, err)

		assert.Equal(t, order.PaymentPending, summary.Status)
		assert.True(t, dec("500").Equal(summary.ItemsTotal))
		assert.True(t, dec("600").Equal(summary.OrderTotal))
		assert.True(t, dec("300").Equal(summary.PaidAmount))
		assert.True(t, dec("300").Equal(summary.Remaining))
		assert.False(t, summary.FullyPaid)

		require.Len(t, summary.Units, 3)
		assert.Equal(t, "12A", summary.Units[0].Key)
		assert.Equal(t, order.PaymentPaidStatus, summary.Units[0].Status)
		assert.Equal(t, "7B", summary.Units[1].Key)
		assert.Equal(t, order.DeliveryUnitKey, summary.Units[2].Key)

		require.Len(t, summary.Unresolved, 1)
		assert.Equal(t, "mystery", summary.Unresolved[0].ProductID)
		catalog.AssertExpectations(t)
	})

	t.Run("should return not found for an unknown order", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		reader := new(MockOrderReader)
		reader.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

		query, err := queries.NewGetPaymentSummaryQuery(id)
		require.NoError(t, err)

		h := queries.NewGetPaymentSummaryQueryHandler(reader, services.NewPaymentLedger(new(MockCatalog), clock.NewFixed(now)))
		_, err = h.Handle(ctx, query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
