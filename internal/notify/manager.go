package notify

import (
	"context"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Event types
const (
	EventComplete   = "on_complete"
	EventRegression = "on_regression"
)

// Manager sends benchmark notifications to Slack, preferring the API
// client when a bot token is present and falling back to a plain webhook.
type Manager struct {
	client    *slack.Client
	webhook   *SlackNotifier
	channelID string

	logger func(string, ...interface{})
}

// NewManager creates a new Notification Manager.
func NewManager(logger func(string, ...interface{})) *Manager {
	m := &Manager{
		logger: logger,
	}
	m.initSlack()
	return m
}

func (m *Manager) initSlack() {
	if !viper.GetBool("notifications.slack.enabled") {
		return
	}

	m.channelID = viper.GetString("notifications.slack.channel")

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken != "" {
		m.client = slack.New(botToken)
		return
	}

	webhookURL := viper.GetString("notifications.slack.webhook_url")
	if webhookURL == "" {
		webhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if webhookURL != "" {
		m.webhook = NewSlackNotifier(webhookURL)
		m.webhook.Channel = m.channelID
		return
	}

	if m.logger != nil {
		m.logger("Warning: neither SLACK_BOT_USER_TOKEN nor a webhook URL is set, slack notifications disabled")
	}
}

// Notify sends a notification if the event is enabled in configuration.
func (m *Manager) Notify(ctx context.Context, eventType string, message string) error {
	if !m.isEnabled(eventType) {
		return nil
	}

	if m.logger != nil {
		m.logger("Sending notification for event: %s", eventType)
	}

	if m.client != nil {
		channelID := m.channelID
		if channelID == "" {
			channelID = "#benchmarks"
		}
		_, _, err := m.client.PostMessageContext(ctx, channelID,
			slack.MsgOptionText(message, false))
		return err
	}

	if m.webhook != nil {
		return m.webhook.Notify(ctx, message)
	}

	return nil
}

func (m *Manager) isEnabled(eventType string) bool {
	if !viper.GetBool("notifications.slack.enabled") {
		return false
	}
	return viper.GetBool("notifications.slack.events." + eventType)
}
