// Package http exposes the order lifecycle over a JSON API served by echo.
package http

import (
	"context"
	"net/http"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) error
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (order.TransitionResult, error)
	}
	EditOrderHandler interface {
		Handle(ctx context.Context, cmd commands.EditOrderCommand) (order.Modification, error)
	}
	RecordPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.RecordPaymentCommand) (services.PaymentOutcome, error)
	}
	PriceDeliveryBatchHandler interface {
		Handle(ctx context.Context, cmd commands.PriceDeliveryBatchCommand) (services.BatchResult, error)
	}
	DispatchBatchHandler interface {
		Handle(ctx context.Context, cmd commands.DispatchBatchCommand) (services.BatchResult, error)
	}
	GetOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOrdersQuery) ([]queries.GetOrdersQueryResponse, error)
	}
	GetDeliveryBatchesHandler interface {
		Handle(ctx context.Context, query queries.GetDeliveryBatchesQuery) ([]queries.GetDeliveryBatchesQueryResponse, error)
	}
	GetPaymentSummaryHandler interface {
		Handle(ctx context.Context, query queries.GetPaymentSummaryQuery) (services.PaymentSummary, error)
	}
)

// Handlers lists the use cases the server dispatches to.
type Handlers struct {
	PlaceOrder         PlaceOrderHandler
	ChangeOrderStatus  ChangeOrderStatusHandler
	EditOrder          EditOrderHandler
	RecordPayment      RecordPaymentHandler
	PriceDeliveryBatch PriceDeliveryBatchHandler
	DispatchBatch      DispatchBatchHandler
	GetOrders          GetOrdersHandler
	GetDeliveryBatches GetDeliveryBatchesHandler
	GetPaymentSummary  GetPaymentSummaryHandler
}

// Server translates HTTP requests into commands and queries.
// Every state-changing route reads the actor from the X-Actor-ID and X-Actor-Role headers.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the API on e.
//
//	POST /api/v1/orders                    place an order
//	GET  /api/v1/orders                    list orders (?customerId=&status=)
//	POST /api/v1/orders/:id/edit           seller edit
//	POST /api/v1/orders/:id/payments       pay one settlement unit
//	GET  /api/v1/orders/:id/payments       payment summary
//	POST /api/v1/orders/:id/:action        any other transition
//	GET  /api/v1/batches                   delivery batches (?status=confirmed|ready)
//	POST /api/v1/batches/pricing           price a batch
//	POST /api/v1/batches/dispatch          dispatch a batch
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:id/edit", s.EditOrder)
	api.POST("/orders/:id/payments", s.RecordPayment)
	api.GET("/orders/:id/payments", s.GetPaymentSummary)
	api.POST("/orders/:id/:action", s.ChangeOrderStatus)

	api.GET("/batches", s.GetDeliveryBatches)
	api.POST("/batches/pricing", s.PriceDeliveryBatch)
	api.POST("/batches/dispatch", s.DispatchBatch)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
