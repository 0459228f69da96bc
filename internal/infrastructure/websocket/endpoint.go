package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait 单次写超时
	writeWait = 10 * time.Second
	// pongWait 超过该时间未收到任何消息则断开
	pongWait = 60 * time.Second
	// pingPeriod 必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 入站消息上限，核心不消费入站消息
	maxMessageSize = 4096
)

// Endpoint 把 HTTP 请求升级为订阅者连接
type Endpoint struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *slog.Logger
}

// NewEndpoint 创建 WebSocket 接入点
func NewEndpoint(hub *Hub, cfg *config.WebSocketConfig) *Endpoint {
	return &Endpoint{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sendBuffer: cfg.SendBufferSize,
		logger:     log.NewModuleLogger("websocket", "endpoint"),
	}
}

// Serve 升级连接、注册订阅者并启动读写协程
// welcome 非空时作为第一条消息发送给该订阅者
func (e *Endpoint) Serve(w http.ResponseWriter, r *http.Request, welcome interface{}) (*Subscriber, error) {
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.logger.Error("failed to upgrade connection", "error", err)
		return nil, err
	}

	sub := NewSubscriber(uuid.New().String(), e.sendBuffer)
	if welcome != nil {
		if data, err := json.Marshal(welcome); err == nil {
			sub.Enqueue(data)
		}
	}
	e.hub.Register(sub)

	e.logger.Info("subscriber connected",
		"subscriber_id", sub.ID,
		"remote_addr", r.RemoteAddr,
	)

	go e.writePump(conn, sub)
	go e.readPump(conn, sub)

	return sub, nil
}

// readPump 丢弃入站消息，仅用于感知断开与续期超时
func (e *Endpoint) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer sub.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				e.logger.Warn("connection read error",
					"subscriber_id", sub.ID,
					"error", err,
				)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump 顺序写出队列中的消息并定期 Ping
func (e *Endpoint) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
		e.logger.Info("subscriber disconnected", "subscriber_id", sub.ID)
	}()

	for {
		select {
		case <-sub.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-sub.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				e.logger.Warn("failed to write message",
					"subscriber_id", sub.ID,
					"error", err,
				)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
