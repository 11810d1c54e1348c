package http

import (
	"time"

	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	PavilionNumber string          `json:"pavilionNumber,omitempty"`
}

type PlaceOrderRequest struct {
	PavilionNumber  string        `json:"pavilionNumber"`
	DeliveryAddress string        `json:"deliveryAddress"`
	Items           []ItemRequest `json:"items"`
}

type EditOrderRequest struct {
	Items  []ItemRequest `json:"items"`
	Reason string        `json:"reason"`
}

type PaymentRequest struct {
	Unit       string          `json:"unit"`
	Amount     decimal.Decimal `json:"amount"`
	ReceiptURL string          `json:"receiptUrl"`
}

type BatchPricingRequest struct {
	CustomerID string          `json:"customerId"`
	Address    string          `json:"address"`
	Price      decimal.Decimal `json:"price"`
}

type BatchDispatchRequest struct {
	CustomerID string `json:"customerId"`
	Address    string `json:"address"`
}

type OrderResponse struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customerId"`
	PavilionNumber  string           `json:"pavilionNumber"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Status          string           `json:"status"`
	ItemsTotal      decimal.Decimal  `json:"itemsTotal"`
	DeliveryPrice   *decimal.Decimal `json:"deliveryPrice,omitempty"`
	IsModified      bool             `json:"isModified"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type TransitionResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Replayed bool   `json:"replayed"`
}

type ItemChangeResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	OldQuantity int             `json:"oldQuantity"`
	NewQuantity int             `json:"newQuantity"`
	OldPrice    decimal.Decimal `json:"oldPrice"`
	NewPrice    decimal.Decimal `json:"newPrice"`
	Removed     bool            `json:"removed"`
}

type ModificationResponse struct {
	OriginalTotal decimal.Decimal      `json:"originalTotal"`
	NewTotal      decimal.Decimal      `json:"newTotal"`
	Difference    decimal.Decimal      `json:"difference"`
	Reason        string               `json:"reason"`
	ModifiedAt    time.Time            `json:"modifiedAt"`
	Changes       []ItemChangeResponse `json:"changes"`
}

type PaymentResponse struct {
	Unit       string              `json:"unit"`
	Replayed   bool                `json:"replayed"`
	Transition *TransitionResponse `json:"transition,omitempty"`
}

type UnitResponse struct {
	Key        string          `json:"key"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	ReceiptURL string          `json:"receiptUrl,omitempty"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
}

type PaymentSummaryResponse struct {
	OrderID       string          `json:"orderId"`
	Status        string          `json:"status"`
	ItemsTotal    decimal.Decimal `json:"itemsTotal"`
	DeliveryPrice decimal.Decimal `json:"deliveryPrice"`
	OrderTotal    decimal.Decimal `json:"orderTotal"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Remaining     decimal.Decimal `json:"remaining"`
	FullyPaid     bool            `json:"fullyPaid"`
	Units         []UnitResponse  `json:"units"`
	Unresolved    []string        `json:"unresolvedProducts"`
}

type ReceiptResponse struct {
	OrderID string          `json:"orderId"`
	Unit    string          `json:"unit"`
	Amount  decimal.Decimal `json:"amount"`
	URL     string          `json:"url"`
	PaidAt  *time.Time      `json:"paidAt,omitempty"`
}

type DeliveryBatchResponse struct {
	CustomerID    string            `json:"customerId"`
	Address       string            `json:"address"`
	OrderIDs      []string          `json:"orderIds"`
	Pavilions     []string          `json:"pavilions"`
	ItemsTotal    decimal.Decimal   `json:"itemsTotal"`
	DeliveryPrice *decimal.Decimal  `json:"deliveryPrice,omitempty"`
	Total         decimal.Decimal   `json:"total"`
	Receipts      []ReceiptResponse `json:"receipts"`
}

type OrderOutcomeResponse struct {
	OrderID  string `json:"orderId"`
	From     string `json:"from"`
	To       string `json:"to"`
	Replayed bool   `json:"replayed"`
	Staged   bool   `json:"staged"`
	Error    string `json:"error,omitempty"`
}

type BatchResultResponse struct {
	CustomerID string                 `json:"customerId"`
	Address    string                 `json:"address"`
	Succeeded  int                    `json:"succeeded"`
	Outcomes   []OrderOutcomeResponse `json:"outcomes"`
}

func toItems(requests []ItemRequest) []order.Item {
	items := make([]order.Item, 0, len(requests))
	for _, r := range requests {
		items = append(items, order.Item{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			Quantity:       r.Quantity,
			Price:          r.Price,
			PavilionNumber: r.PavilionNumber,
		})
	}
	return items
}

func toOrderResponse(o queries.GetOrdersQueryResponse) OrderResponse {
	return OrderResponse{
		ID:              o.ID.String(),
		CustomerID:      o.CustomerID.String(),
		PavilionNumber:  o.PavilionNumber,
		DeliveryAddress: o.DeliveryAddress,
		Status:          o.Status.String(),
		ItemsTotal:      o.ItemsTotal,
		DeliveryPrice:   o.DeliveryPrice,
		IsModified:      o.IsModified,
		CreatedAt:       o.CreatedAt,
	}
}

func toTransitionResponse(r order.TransitionResult) TransitionResponse {
	return TransitionResponse{From: r.From.String(), To: r.To.String(), Replayed: r.Replayed}
}

func toModificationResponse(m order.Modification) ModificationResponse {
	changes := make([]ItemChangeResponse, 0, len(m.Changes))
	for _, ch := range m.Changes {
		changes = append(changes, ItemChangeResponse{
			ProductID:   ch.ProductID,
			ProductName: ch.ProductName,
			OldQuantity: ch.OldQuantity,
			NewQuantity: ch.NewQuantity,
			OldPrice:    ch.OldPrice,
			NewPrice:    ch.NewPrice,
			Removed:     ch.Removed,
		})
	}
	return ModificationResponse{
		OriginalTotal: m.OriginalTotal,
		NewTotal:      m.NewTotal,
		Difference:    m.Difference(),
		Reason:        m.Reason,
		ModifiedAt:    m.ModifiedAt,
		Changes:       changes,
	}
}

func toPaymentResponse(o services.PaymentOutcome) PaymentResponse {
	resp := PaymentResponse{Unit: o.Unit, Replayed: o.Replayed}
	if o.Transition != nil {
		t := toTransitionResponse(*o.Transition)
		resp.Transition = &t
	}
	return resp
}

func toPaymentSummaryResponse(s services.PaymentSummary) PaymentSummaryResponse {
	units := make([]UnitResponse, 0, len(s.Units))
	for _, u := range s.Units {
		units = append(units, UnitResponse{
			Key:        u.Key,
			Amount:     u.Amount,
			Status:     string(u.Status),
			ReceiptURL: u.ReceiptURL,
			PaidAt:     u.PaidAt,
		})
	}
	unresolved := make([]string, 0, len(s.Unresolved))
	for _, item := range s.Unresolved {
		unresolved = append(unresolved, item.ProductID)
	}
	return PaymentSummaryResponse{
		OrderID:       s.OrderID.String(),
		Status:        s.Status.String(),
		ItemsTotal:    s.ItemsTotal,
		DeliveryPrice: s.DeliveryPrice,
		OrderTotal:    s.OrderTotal,
		PaidAmount:    s.PaidAmount,
		Remaining:     s.Remaining,
		FullyPaid:     s.FullyPaid,
		Units:         units,
		Unresolved:    unresolved,
	}
}

func toDeliveryBatchResponse(b queries.GetDeliveryBatchesQueryResponse) DeliveryBatchResponse {
	ids := make([]string, 0, len(b.OrderIDs))
	for _, id := range b.OrderIDs {
		ids = append(ids, id.String())
	}
	receipts := make([]ReceiptResponse, 0, len(b.Receipts))
	for _, r := range b.Receipts {
		receipts = append(receipts, ReceiptResponse{
			OrderID: r.OrderID.String(),
			Unit:    r.Unit,
			Amount:  r.Amount,
			URL:     r.URL,
			PaidAt:  r.PaidAt,
		})
	}
	return DeliveryBatchResponse{
		CustomerID:    b.CustomerID.String(),
		Address:       b.Address,
		OrderIDs:      ids,
		Pavilions:     b.Pavilions,
		ItemsTotal:    b.ItemsTotal,
		DeliveryPrice: b.DeliveryPrice,
		Total:         b.Total,
		Receipts:      receipts,
	}
}

func toBatchResultResponse(r services.BatchResult) BatchResultResponse {
	outcomes := make([]OrderOutcomeResponse, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		resp := OrderOutcomeResponse{
			OrderID:  o.OrderID.String(),
			From:     o.From.String(),
			To:       o.To.String(),
			Replayed: o.Replayed,
			Staged:   o.Staged,
		}
		if o.Err != nil {
			resp.Error = o.Err.Error()
		}
		outcomes = append(outcomes, resp)
	}
	return BatchResultResponse{
		CustomerID: r.Key.CustomerID.String(),
		Address:    r.Key.Address,
		Succeeded:  r.Succeeded(),
		Outcomes:   outcomes,
	}
}
