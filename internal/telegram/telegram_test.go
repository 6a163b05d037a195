package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steelleads-go/internal/model"
)

func TestFormatMessage(t *testing.T) {
	lead := model.Lead{
		Title:             "NCC bags Rs 1,200 crore metro order",
		Company:           "NCC Limited",
		ProjectType:       "Transportation - Metro",
		Location:          "Chennai",
		ContractValue:     "Rs. 1,200 crore",
		SteelRequirements: "TMT bars, structural sections",
		TargetCompany:     "NCC Limited",
		Urgency:           "high",
		Tag:               "Infrastructure-Contract_Won",
		DatePublished:     "2026-08-20",
		SourceURL:         "https://example.com/ann.pdf",
	}

	msg := formatMessage(lead)
	assert.Contains(t, msg, "NCC bags Rs 1,200 crore metro order")
	assert.Contains(t, msg, "Transportation - Metro in Chennai")
	assert.Contains(t, msg, "Urgency: high")
	assert.Contains(t, msg, "https://example.com/ann.pdf")
}

func TestFormatMessagePlaceholders(t *testing.T) {
	msg := formatMessage(model.Lead{Title: "Bare minimum"})
	assert.Contains(t, msg, "Company: —")
	assert.Contains(t, msg, "Value: —")
	assert.NotContains(t, msg, "Steel:", "empty optional fields are omitted")
}

func TestSplitMessage(t *testing.T) {
	parts := splitMessage(strings.Repeat("a", 10), 4)
	require.Len(t, parts, 3)
	assert.Equal(t, "aaaa", parts[0])
	assert.Equal(t, "aa", parts[2])

	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
}

func TestSendAlertPostsMessage(t *testing.T) {
	received := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	threadID := 7
	sender := NewSender("token123", "chat456", &threadID, WithAPIBase(server.URL))
	sender.SendAlert(model.Lead{Title: "Fresh lead"})

	select {
	case payload := <-received:
		assert.Equal(t, "chat456", payload["chat_id"])
		assert.Equal(t, float64(7), payload["message_thread_id"])
		assert.Contains(t, payload["text"], "Fresh lead")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for telegram message")
	}
}
