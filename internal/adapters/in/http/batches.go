package http

import (
	"net/http"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// BatchError is returned when a batch operation stopped part way. Result lists the
// orders that were attempted.
type BatchError struct {
	Error
	Result *BatchResultResponse `json:"result,omitempty"`
}

// GetDeliveryBatches handles GET /api/v1/batches?status=confirmed|ready.
func (s *Server) GetDeliveryBatches(c echo.Context) error {
	name := c.QueryParam("status")
	if name == "" {
		name = order.Confirmed.String()
	}
	status, err := order.ParseStatus(name)
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetDeliveryBatchesQuery(status)
	if err != nil {
		return writeError(c, err)
	}

	batches, err := s.h.GetDeliveryBatches.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]DeliveryBatchResponse, 0, len(batches))
	for _, b := range batches {
		response = append(response, toDeliveryBatchResponse(b))
	}
	return c.JSON(http.StatusOK, response)
}

// PriceDeliveryBatch handles POST /api/v1/batches/pricing.
func (s *Server) PriceDeliveryBatch(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}

	var req BatchPricingRequest
	if err = c.Bind(&req); err != nil {
		return writeError(c, badRequest("invalid request body"))
	}

	cmd, err := commands.NewPriceDeliveryBatchCommand(actor, kernel.UserID(req.CustomerID), req.Address, req.Price)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.PriceDeliveryBatch.Handle(c.Request().Context(), cmd)
	return writeBatchResult(c, result, err)
}

// DispatchBatch handles POST /api/v1/batches/dispatch.
func (s *Server) DispatchBatch(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}

	var req BatchDispatchRequest
	if err = c.Bind(&req); err != nil {
		return writeError(c, badRequest("invalid request body"))
	}

	cmd, err := commands.NewDispatchBatchCommand(actor, kernel.UserID(req.CustomerID), req.Address)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.h.DispatchBatch.Handle(c.Request().Context(), cmd)
	return writeBatchResult(c, result, err)
}

func writeBatchResult(c echo.Context, result services.BatchResult, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, toBatchResultResponse(result))
	}
	if len(result.Outcomes) == 0 {
		return writeError(c, err)
	}

	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		message = "internal error"
	}
	body := toBatchResultResponse(result)
	return c.JSON(code, BatchError{
		Error:  Error{Code: code, Message: message},
		Result: &body,
	})
}
