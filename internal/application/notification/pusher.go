package notification

import "github.com/eventd/backend/internal/domain/notification"

// Pusher 推送接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念
type Pusher interface {
	// Broadcast 推送给所有在线订阅者，返回成功入队的订阅者数
	Broadcast(msg *notification.Message) (int, error)
	// Subscribers 在线订阅者数
	Subscribers() int
}
