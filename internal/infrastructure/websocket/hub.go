package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/eventd/backend/internal/infrastructure/log"
)

// Subscriber 一个在线订阅者（一条 WebSocket 连接）
// 只有打开/关闭两种状态；关闭后不再接收消息
type Subscriber struct {
	ID string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscriber 创建订阅者；bufferSize 为发送队列长度
func NewSubscriber(id string, bufferSize int) *Subscriber {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Subscriber{
		ID:   id,
		send: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
}

// Outbound 待发送消息队列
func (s *Subscriber) Outbound() <-chan []byte {
	return s.send
}

// Done 关闭信号
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close 发出关闭信号，可重复调用
// send 通道不关闭，避免并发广播向已关闭通道写入
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// IsOpen 是否仍处于打开状态
func (s *Subscriber) IsOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Enqueue 非阻塞入队；订阅者已关闭或队列已满时返回 false
func (s *Subscriber) Enqueue(data []byte) bool {
	if !s.IsOpen() {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// Hub 订阅者集合与广播
type Hub struct {
	subscribers map[*Subscriber]struct{}
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		logger:      log.NewModuleLogger("websocket", "hub"),
	}
}

// Register 注册订阅者，订阅者关闭时自动移除
func (h *Hub) Register(sub *Subscriber) {
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Debug("subscriber registered", "subscriber_id", sub.ID, "subscribers", count)

	go func() {
		<-sub.Done()
		h.Unregister(sub)
	}()
}

// Unregister 移除订阅者并发出关闭信号
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	sub.Close()
	if ok {
		h.logger.Debug("subscriber unregistered", "subscriber_id", sub.ID, "subscribers", count)
	}
}

// Broadcast 序列化一次后投递给所有打开的订阅者
// 不等待确认、不重试；队列满的订阅者直接丢弃本条消息
func (h *Hub) Broadcast(data interface{}) (int, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, err
	}
	return h.BroadcastRaw(payload), nil
}

// BroadcastRaw 投递已序列化的消息，返回成功入队的订阅者数
func (h *Hub) BroadcastRaw(payload []byte) int {
	// 遍历快照，广播期间的断开不影响迭代
	h.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		snapshot = append(snapshot, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range snapshot {
		if !sub.IsOpen() {
			continue
		}
		if sub.Enqueue(payload) {
			delivered++
			continue
		}
		h.logger.Warn("send buffer full, dropping message", "subscriber_id", sub.ID)
	}
	return delivered
}

// Count 当前订阅者数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close 关闭所有订阅者
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*Subscriber]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.Close()
	}
}
