package notification

import (
	"github.com/eventd/backend/internal/application/notification"
	domainNotification "github.com/eventd/backend/internal/domain/notification"
	"github.com/eventd/backend/internal/infrastructure/websocket"
)

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// Broadcast 推送给所有在线订阅者，返回成功入队的订阅者数
func (p *WebSocketPusher) Broadcast(msg *domainNotification.Message) (int, error) {
	return p.hub.Broadcast(msg)
}

// Subscribers 在线订阅者数
func (p *WebSocketPusher) Subscribers() int {
	return p.hub.Count()
}

// 编译时检查接口实现
var _ notification.Pusher = (*WebSocketPusher)(nil)
