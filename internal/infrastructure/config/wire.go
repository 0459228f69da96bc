package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
// *Config 由注入函数参数提供
var ProviderSet = wire.NewSet(
	NewServerConfig,
	NewEngineConfig,
	NewAuditConfig,
	NewWebSocketConfig,
	NewDiscoveryConfig,
	NewWatcher,
)
