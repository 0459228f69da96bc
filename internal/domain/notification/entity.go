package notification

import "github.com/eventd/backend/internal/domain/event"

// Type 推送消息类型
type Type string

const (
	// TypeEventReminder 事件即将开始提醒
	TypeEventReminder Type = "event_reminder"
	// TypeConnection 连接建立确认
	TypeConnection Type = "connection"
)

// Message 推送给订阅者的 JSON 信封
type Message struct {
	Type    Type             `json:"type"`
	Event   *ReminderPayload `json:"event,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ReminderPayload 提醒中携带的事件摘要
type ReminderPayload struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TimeRemaining string `json:"timeRemaining"`
}

// NewReminder 构造事件提醒
// timeRemaining 是固定标签，不根据实际剩余时间计算
func NewReminder(e *event.Event, timeRemaining string) *Message {
	return &Message{
		Type: TypeEventReminder,
		Event: &ReminderPayload{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			TimeRemaining: timeRemaining,
		},
	}
}

// NewConnectionEstablished 连接建立后的欢迎消息
func NewConnectionEstablished() *Message {
	return &Message{
		Type:    TypeConnection,
		Message: "WebSocket connection established",
	}
}
