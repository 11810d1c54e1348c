package http

import (
	"errors"
	"net/http"

	"market/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrPersistenceConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusOf(err)

	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		message = "internal error"
	}

	return c.JSON(code, Error{Code: code, Message: message})
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
