// Package notify delivers fire-and-forget system alerts. The
// pipeline only ever consumes the Notifier interface; delivery
// failures are logged and never fail the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Alert is one outbound notification.
type Alert struct {
	Title    string
	Message  string
	Category string
}

// Notifier is the delivery contract.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// WebhookNotifier posts alerts as JSON to a workflow webhook
// (n8n-style endpoint).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier with a 5s request timeout.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts the alert. The caller treats errors as advisory.
func (n *WebhookNotifier) Send(ctx context.Context, alert Alert) error {
	category := alert.Category
	if category == "" {
		category = "System Alert"
	}

	payload, err := json.Marshal(map[string]any{
		"subject":   fmt.Sprintf("AURORA System Alert: %s", alert.Title),
		"category":  category,
		"message":   alert.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
