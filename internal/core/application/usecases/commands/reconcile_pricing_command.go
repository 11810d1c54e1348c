package commands

import (
	"errors"

	"market/internal/pkg/errs"
	"market/internal/pkg/guard"
)

var (
	ErrReconcilePricingCommandIsNotConstructed = errors.New(
		"ReconcilePricingCommand must be created via NewReconcilePricingCommand constructor",
	)

	errNoStagingManager = errs.NewValueIsRequiredErrorWithCause(
		"manager", errors.New("staged delivery price does not name a manager"))
)

// ReconcilePricingCommand finishes batch pricing that stopped between staging and
// applying the price.
type ReconcilePricingCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

func NewReconcilePricingCommand() ReconcilePricingCommand {
	return ReconcilePricingCommand{guard: guard.NewConstructorGuard()}
}

func (c ReconcilePricingCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePricingCommandIsNotConstructed)
}
