package calendar

import "github.com/google/wire"

// ProviderSet 日历导出 ProviderSet
var ProviderSet = wire.NewSet(
	NewExporter,
)
