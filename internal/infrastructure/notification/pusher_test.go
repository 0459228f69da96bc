package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	domainNotification "github.com/eventd/backend/internal/domain/notification"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketPusher_Broadcast(t *testing.T) {
	hub := websocket.NewHub()
	sub := websocket.NewSubscriber("s1", 4)
	hub.Register(sub)

	pusher := NewWebSocketPusher(hub)
	assert.Equal(t, 1, pusher.Subscribers())

	e := event.NewEvent("e1", "Standup", "daily", time.Now(), time.Now())
	n, err := pusher.Broadcast(domainNotification.NewReminder(e, "5 minutes"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data := <-sub.Outbound()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "event_reminder", got["type"])

	payload, ok := got["event"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "e1", payload["id"])
	assert.Equal(t, "Standup", payload["title"])
	assert.Equal(t, "daily", payload["description"])
	assert.Equal(t, "5 minutes", payload["timeRemaining"])
	assert.NotContains(t, got, "message")
}
