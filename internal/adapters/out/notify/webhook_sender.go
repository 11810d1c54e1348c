// Package notify holds the transports that deliver outbox notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"market/internal/core/domain/model/notification"
	"market/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

type webhookPayload struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	Recipient   string    `json:"recipient"`
	OrderStatus string    `json:"orderStatus"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WebhookConfig configures WebhookSender.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
	// Retries is how many extra attempts a 5xx or network error gets within one Send.
	Retries uint64
	// RetryInterval is the first backoff interval.
	RetryInterval time.Duration
}

// WebhookSender posts each notification as JSON to a single endpoint that fans it out
// to the recipient's devices.
type WebhookSender struct {
	url           string
	client        *http.Client
	retries       uint64
	retryInterval time.Duration
}

func NewWebhookSender(cfg WebhookConfig, client *http.Client) (*WebhookSender, error) {
	if cfg.URL == "" {
		return nil, errs.NewValueIsRequiredError("webhook url")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	return &WebhookSender{
		url:           cfg.URL,
		client:        client,
		retries:       cfg.Retries,
		retryInterval: interval,
	}, nil
}

// Send delivers n. A 4xx answer is not retried.
func (s *WebhookSender) Send(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(webhookPayload{
		ID:          n.ID().String(),
		OrderID:     n.OrderID().String(),
		Recipient:   n.Recipient().String(),
		OrderStatus: n.OrderStatus().String(),
		Title:       n.Title(),
		Message:     n.Message(),
		CreatedAt:   n.CreatedAt(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval
	policy.MaxElapsedTime = 0
	policy.Reset()

	return backoff.Retry(func() error {
		return s.post(ctx, body)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, s.retries), ctx))
}

func (s *WebhookSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return backoff.Permanent(fmt.Errorf("webhook rejected notification with %d", resp.StatusCode))
	default:
		return nil
	}
}
