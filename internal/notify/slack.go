package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// webhookPayload is the incoming-webhook message shape. Channel and
// Username only take effect on legacy webhooks; app-scoped webhooks
// ignore them and post to the channel they were created for.
type webhookPayload struct {
	Text     string `json:"text"`
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
}

// SlackNotifier posts benchmark summaries to a Slack incoming webhook.
// It is the tokenless delivery path; Manager prefers the API client
// whenever a bot token is configured.
type SlackNotifier struct {
	WebhookURL string
	// Channel optionally overrides the webhook's default channel.
	Channel string
	Client  *http.Client
}

// NewSlackNotifier creates a webhook notifier with a bounded timeout, so
// a slow Slack endpoint cannot stall the end of a benchmark run.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify implements Notifier.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s.WebhookURL == "" {
		return errors.New("slack webhook URL is not configured")
	}

	body, err := json.Marshal(webhookPayload{
		Text:     message,
		Channel:  s.Channel,
		Username: "dfbench",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Webhook errors carry a short plain-text reason in the body,
		// e.g. "invalid_payload" or "channel_not_found".
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack webhook returned %s: %s", resp.Status, bytes.TrimSpace(reason))
	}
	return nil
}
