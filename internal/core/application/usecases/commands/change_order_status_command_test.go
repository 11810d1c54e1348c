package commands_test

import (
	"testing"

	"market/internal/core/application/usecases/commands"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand(t *testing.T) {
	t.Run("should build a valid command", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewChangeOrderStatusCommand(seller, id, order.Confirm)
		require.NoError(t, err)
		assert.Equal(t, seller, cmd.Actor())
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, order.Confirm, cmd.Action())
		require.NoError(t, cmd.Validate())
	})

	t.Run("should require an action", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(seller, kernel.NewUUID(), order.UnknownAction)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should send actions with extra data to their own commands", func(t *testing.T) {
		for _, action := range []order.Action{order.SubmitEdit, order.Pay, order.PriceDelivery} {
			_, err := commands.NewChangeOrderStatusCommand(manager, kernel.NewUUID(), action)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, action.String())
		}
	})

	t.Run("should reject an empty actor and order id", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.Actor{}, kernel.UUID{}, order.Confirm)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should not validate a zero command", func(t *testing.T) {
		cmd := commands.ChangeOrderStatusCommand{}
		require.ErrorIs(t, cmd.Validate(), commands.ErrChangeOrderStatusCommandIsNotConstructed)
	})
}
