package notification

import (
	"github.com/eventd/backend/internal/application/notification"
	"github.com/google/wire"
)

// ProviderSet 通知基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewWebSocketPusher,
	// 接口绑定：application.Pusher -> infrastructure.WebSocketPusher
	wire.Bind(
		new(notification.Pusher),
		new(*WebSocketPusher),
	),
)
