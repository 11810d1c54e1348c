package services_test

import (
	"testing"
	"time"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipientsOf(notices []services.Notice) []kernel.UserID {
	var ids []kernel.UserID
	for _, n := range notices {
		ids = append(ids, n.Recipients...)
	}
	return ids
}

func TestNotificationRouter_Route(t *testing.T) {
	router := services.NewNotificationRouter()
	audience := services.Audience{
		Managers:        []kernel.UserID{"manager-1", "manager-2"},
		PavilionSellers: map[string]kernel.UserID{"12A": "seller-1"},
	}

	tests := []struct {
		name     string
		from     order.Status
		to       order.Status
		expected []kernel.UserID
	}{
		{"confirmed", order.Pending, order.Confirmed, []kernel.UserID{"buyer-1", "manager-1", "manager-2"}},
		{"customer_approval", order.SellerEditing, order.CustomerApproval, []kernel.UserID{"buyer-1"}},
		{"payment_pending", order.Confirmed, order.PaymentPending, []kernel.UserID{"buyer-1"}},
		{"paid", order.PaymentPending, order.Paid, []kernel.UserID{"seller-1", "manager-1", "manager-2"}},
		{"ready", order.Collecting, order.Ready, []kernel.UserID{"manager-1", "manager-2"}},
		{"delivering", order.Ready, order.Delivering, []kernel.UserID{"buyer-1"}},
		{"cancelled", order.Pending, order.Cancelled, []kernel.UserID{"buyer-1", "seller-1"}},
		{"delivered", order.Delivering, order.Delivered, nil},
		{"seller_editing", order.Pending, order.SellerEditing, nil},
		{"manager_pricing", order.Confirmed, order.ManagerPricing, nil},
		{"collecting", order.Paid, order.Collecting, nil},
	}

	for _, tt := range tests {
		t.Run("should route "+tt.name, func(t *testing.T) {
			o := restore(t, orderParams{items: []order.Item{item("p-1", "12A", 1, "100")}, status: tt.to, price: price("50")})

			notices := router.Route(o, tt.from, tt.to, audience)

			assert.Equal(t, tt.expected, recipientsOf(notices))
			for _, n := range notices {
				assert.NotEmpty(t, n.Title)
				assert.NotEmpty(t, n.Text)
			}
		})
	}

	t.Run("should stay silent on replays", func(t *testing.T) {
		o := restore(t, orderParams{items: []order.Item{item("p-1", "12A", 1, "100")}, status: order.Confirmed})

		assert.Empty(t, router.Route(o, order.Confirmed, order.Confirmed, audience))
	})

	t.Run("should address everyone once", func(t *testing.T) {
		o := restore(t, orderParams{customer: "manager-1", items: []order.Item{item("p-1", "12A", 1, "100")}, status: order.Confirmed})
		overlapping := services.Audience{Managers: []kernel.UserID{"manager-1", "manager-1", "manager-2", ""}}

		notices := router.Route(o, order.Pending, order.Confirmed, overlapping)

		assert.Equal(t, []kernel.UserID{"manager-1", "manager-2"}, recipientsOf(notices))
	})

	t.Run("should notify the order's pavilion seller before other pavilions", func(t *testing.T) {
		o := restore(t, orderParams{pavilion: "7", items: []order.Item{item("p-1", "7", 1, "100")}, status: order.Paid})
		sellers := services.Audience{PavilionSellers: map[string]kernel.UserID{"2": "seller-2", "7": "seller-7", "1": "seller-1"}}

		notices := router.Route(o, order.PaymentPending, order.Paid, sellers)

		assert.Equal(t, []kernel.UserID{"seller-7", "seller-1", "seller-2"}, recipientsOf(notices))
	})

	t.Run("should describe the edit to the buyer", func(t *testing.T) {
		o := restore(t, orderParams{items: []order.Item{item("p-1", "12A", 1, "100"), item("p-2", "12A", 1, "50")}, status: order.Pending})
		_, _, err := o.SubmitEdit(seller, []order.Item{item("p-1", "12A", 1, "100")}, "out of stock", time.Now())
		require.NoError(t, err)

		notices := router.Route(o, order.Pending, order.CustomerApproval, audience)

		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Text, "total 100.00 instead of 150.00")
		assert.Contains(t, notices[0].Text, "out of stock")
	})

	t.Run("should tell the buyer what is due", func(t *testing.T) {
		o := restore(t, orderParams{
			items:    []order.Item{item("p-1", "12A", 5, "100")},
			status:   order.PaymentPending,
			price:    price("150"),
			payments: map[string]order.PaymentRecord{"12A": pending("500"), order.DeliveryUnitKey: pending("150")},
		})

		notices := router.Route(o, order.Confirmed, order.PaymentPending, audience)

		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Text, "costs 150.00")
		assert.Contains(t, notices[0].Text, "Amount due: 650.00")
	})

	t.Run("should quote only what the settlement units ask for", func(t *testing.T) {
		o := restore(t, orderParams{
			items:    []order.Item{item("p-1", "12A", 5, "100"), item("unknown", "", 1, "70")},
			status:   order.PaymentPending,
			price:    price("150"),
			payments: map[string]order.PaymentRecord{"12A": pending("500"), order.DeliveryUnitKey: pending("150")},
		})

		notices := router.Route(o, order.Confirmed, order.PaymentPending, audience)

		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Text, "Amount due: 650.00")
	})
}
