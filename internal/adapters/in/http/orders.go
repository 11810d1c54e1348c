package http

import (
	"net/http"
	"strings"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// PlaceOrder handles POST /api/v1/orders. Answers 201 with the new order's id.
func (s *Server) PlaceOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}

	var req PlaceOrderRequest
	if err = c.Bind(&req); err != nil {
		return writeError(c, badRequest("invalid request body"))
	}

	cmd, err := commands.NewPlaceOrderCommand(actor, kernel.NewUUID(), req.PavilionNumber, req.DeliveryAddress, toItems(req.Items))
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.PlaceOrder.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": cmd.OrderID().String()})
}

// GetOrders handles GET /api/v1/orders. A buyer only ever sees their own orders;
// other roles may filter by customerId. status may repeat or be comma separated.
func (s *Server) GetOrders(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}

	customerID := kernel.UserID(strings.TrimSpace(c.QueryParam("customerId")))
	if actor.Role() == kernel.Buyer {
		customerID = actor.ID()
	}

	var statuses []order.Status
	for _, param := range c.QueryParams()["status"] {
		for _, name := range strings.Split(param, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			status, parseErr := order.ParseStatus(name)
			if parseErr != nil {
				return writeError(c, parseErr)
			}
			statuses = append(statuses, status)
		}
	}

	query, err := queries.NewGetOrdersQuery(customerID, statuses...)
	if err != nil {
		return writeError(c, err)
	}

	orders, err := s.h.GetOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, response)
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/:action for every transition that
// carries no payload.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := orderIDOf(c)
	if err != nil {
		return writeError(c, err)
	}
	action, err := order.ParseAction(c.Param("action"))
	if err != nil {
		return writeError(c, echo.NewHTTPError(http.StatusNotFound, err.Error()))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(actor, orderID, action)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.ChangeOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toTransitionResponse(result))
}

// EditOrder handles POST /api/v1/orders/:id/edit.
func (s *Server) EditOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := orderIDOf(c)
	if err != nil {
		return writeError(c, err)
	}

	var req EditOrderRequest
	if err = c.Bind(&req); err != nil {
		return writeError(c, badRequest("invalid request body"))
	}

	cmd, err := commands.NewEditOrderCommand(actor, orderID, toItems(req.Items), req.Reason)
	if err != nil {
		return writeError(c, err)
	}

	modification, err := s.h.EditOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toModificationResponse(modification))
}

// RecordPayment handles POST /api/v1/orders/:id/payments.
func (s *Server) RecordPayment(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := orderIDOf(c)
	if err != nil {
		return writeError(c, err)
	}

	var req PaymentRequest
	if err = c.Bind(&req); err != nil {
		return writeError(c, badRequest("invalid request body"))
	}

	cmd, err := commands.NewRecordPaymentCommand(actor, orderID, req.Unit, req.Amount, req.ReceiptURL)
	if err != nil {
		return writeError(c, err)
	}

	outcome, err := s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toPaymentResponse(outcome))
}

// GetPaymentSummary handles GET /api/v1/orders/:id/payments.
func (s *Server) GetPaymentSummary(c echo.Context) error {
	orderID, err := orderIDOf(c)
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetPaymentSummaryQuery(orderID)
	if err != nil {
		return writeError(c, err)
	}

	summary, err := s.h.GetPaymentSummary.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toPaymentSummaryResponse(summary))
}
