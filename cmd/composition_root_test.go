package cmd

import (
	"log/slog"
	"testing"

	"market/internal/adapters/out/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompositionRoot(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("should log notifications when no webhook is configured", func(t *testing.T) {
		root, err := NewCompositionRoot(Config{}, nil, logger)
		require.NoError(t, err)

		assert.IsType(t, &notify.LogSender{}, root.sender)
	})

	t.Run("should post notifications to the configured webhook", func(t *testing.T) {
		cfg := Config{Notification: NotificationConfig{WebhookURL: "http://push.local/notify"}}

		root, err := NewCompositionRoot(cfg, nil, logger)
		require.NoError(t, err)

		assert.IsType(t, &notify.WebhookSender{}, root.sender)
	})

	t.Run("should build every handler and the job manager", func(t *testing.T) {
		cfg := Config{
			Notification: NotificationConfig{Workers: 2, BatchSize: 10},
			Jobs:         JobsConfig{NotificationDispatch: "*/5 * * * * *", PricingReconcile: "0 * * * * *"},
		}
		root, err := NewCompositionRoot(cfg, nil, logger)
		require.NoError(t, err)

		assert.NotNil(t, root.CreateHTTPServer())
		assert.NotNil(t, root.CreateJobManager())
	})
}
