package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_HorizonLabel(t *testing.T) {
	svc := NewService()

	tests := []struct {
		horizon  time.Duration
		expected string
	}{
		{5 * time.Minute, "5 minutes"},
		{time.Minute, "1 minute"},
		{2 * time.Hour, "2 hours"},
		{90 * time.Second, "90 seconds"},
		{time.Hour, "1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.HorizonLabel(tt.horizon))
		})
	}
}

func TestNewReminder_Shape(t *testing.T) {
	e := event.NewEvent("a1", "Standup", "daily sync", time.Now(), time.Now())

	data, err := json.Marshal(NewReminder(e, "5 minutes"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "event_reminder",
		"event": {"id": "a1", "title": "Standup", "description": "daily sync", "timeRemaining": "5 minutes"}
	}`, string(data))
}

func TestNewConnectionEstablished_Shape(t *testing.T) {
	data, err := json.Marshal(NewConnectionEstablished())
	require.NoError(t, err)

	assert.JSONEq(t, `{"type": "connection", "message": "WebSocket connection established"}`, string(data))
}
