package commands

import (
	"errors"

	"market/internal/pkg/errs"
	"market/internal/pkg/guard"
)

const DefaultNotificationBatchSize = 100

var (
	ErrDispatchNotificationsCommandIsNotConstructed = errors.New(
		"DispatchNotificationsCommand must be created via NewDispatchNotificationsCommand constructor",
	)
)

// DispatchNotificationsCommand delivers up to Limit pending notifications.
type DispatchNotificationsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

func NewDispatchNotificationsCommand(limit int) (DispatchNotificationsCommand, error) {
	if limit <= 0 {
		return DispatchNotificationsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	return DispatchNotificationsCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationsCommandIsNotConstructed)
}

func (c DispatchNotificationsCommand) Limit() int {
	return c.limit
}
