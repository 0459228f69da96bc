package event

import "github.com/google/wire"

// ProviderSet 事件应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewUUIDGenerator,
	NewService,
)
