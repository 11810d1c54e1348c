package http

import (
	"strings"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// actorOf reads the caller's identity. The service sits behind an authenticating
// gateway and trusts these headers.
func actorOf(c echo.Context) (kernel.Actor, error) {
	id := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
	if id == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError(HeaderActorID)
	}

	role, err := kernel.ParseRole(c.Request().Header.Get(HeaderActorRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(kernel.UserID(id), role)
}

func orderIDOf(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return id, nil
}
