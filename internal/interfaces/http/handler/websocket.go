package handler

import (
	"github.com/eventd/backend/internal/application/notification"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler 实时提醒通道
type WebSocketHandler struct {
	endpoint *websocket.Endpoint
	notifier *notification.Service
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(endpoint *websocket.Endpoint, notifier *notification.Service) *WebSocketHandler {
	return &WebSocketHandler{
		endpoint: endpoint,
		notifier: notifier,
	}
}

// Serve 升级为 WebSocket 连接并订阅提醒
// @Summary 订阅实时提醒
// @Description 连接建立后先收到 connection 消息，之后只接收服务端推送
// @Tags 通知
// @Router /ws [get]
func (h *WebSocketHandler) Serve(c *gin.Context) {
	// 升级失败时 Upgrader 已写入错误响应
	_, _ = h.endpoint.Serve(c.Writer, c.Request, h.notifier.Welcome())
}
