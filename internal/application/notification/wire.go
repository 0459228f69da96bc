package notification

import (
	"github.com/eventd/backend/internal/domain/notification"
	"github.com/google/wire"
)

// ProviderSet 通知应用层 ProviderSet
var ProviderSet = wire.NewSet(
	notification.NewService,
	NewService,
	// 注意：Pusher 接口绑定在 infrastructure/notification 中处理
)
