// Package notifier pushes CRITICAL alarm events to an external webhook
// so municipal triage staff are paged without polling.
package notifier

import (
	"context"
	"fmt"
	"time"

	"mantelzorg-engine/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier POSTs alarm events as JSON to a configured URL.
// An empty URL disables the notifier; delivery is best-effort and the
// evaluation pipeline never fails on a notification error.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookNotifier creates the notifier.
func NewWebhookNotifier(url string, retryCount, timeoutSec int, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetRetryCount(retryCount).
		SetTimeout(time.Duration(timeoutSec) * time.Second)

	return &WebhookNotifier{
		client: client,
		url:    url,
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// NotifyCritical delivers one event. No-op when disabled.
func (n *WebhookNotifier) NotifyCritical(ctx context.Context, event models.AlarmEvent) error {
	if !n.Enabled() {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to deliver alarm webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alarm webhook returned status %d", resp.StatusCode())
	}

	n.logger.Debug("Critical alarm delivered to webhook",
		zap.String("event_id", event.EventID),
		zap.Int("status", resp.StatusCode()),
	)
	return nil
}
