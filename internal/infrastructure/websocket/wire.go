package websocket

import "github.com/google/wire"

// ProviderSet WebSocket 基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewHub,
	NewEndpoint,
)
