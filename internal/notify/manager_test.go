package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDisabled(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	m := NewManager(nil)
	// Nothing is configured, Notify must be a silent no-op.
	err := m.Notify(context.Background(), EventComplete, "hello")
	assert.NoError(t, err)
}

func TestManagerEventGating(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	sent := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.webhook_url", server.URL)
	viper.Set("notifications.slack.events.on_complete", true)
	viper.Set("notifications.slack.events.on_regression", false)

	m := NewManager(t.Logf)
	require.NotNil(t, m.webhook)

	require.NoError(t, m.Notify(context.Background(), EventComplete, "done"))
	assert.Equal(t, 1, sent)

	// Disabled event does not reach the webhook.
	require.NoError(t, m.Notify(context.Background(), EventRegression, "slow"))
	assert.Equal(t, 1, sent)
}

func TestManagerWebhookPayload(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	received := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		received = payload["text"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.webhook_url", server.URL)
	viper.Set("notifications.slack.events.on_complete", true)

	m := NewManager(nil)
	require.NoError(t, m.Notify(context.Background(), EventComplete, "suite finished"))
	assert.Equal(t, "suite finished", received)
}

func TestManagerNoTransportConfigured(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.events.on_complete", true)

	warned := false
	m := NewManager(func(format string, args ...interface{}) {
		warned = true
	})
	assert.True(t, warned)
	assert.NoError(t, m.Notify(context.Background(), EventComplete, "msg"))
}
