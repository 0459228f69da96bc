package audit

import (
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/storage"
	"github.com/google/wire"
)

// ProviderSet 审计 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideSink,
)

// ProvideSink 文本日志为主，配置了 SQLite 镜像时一并写入
func ProvideSink(cfg *config.AuditConfig, mirror *storage.AuditRepository) *MultiSink {
	sinks := []Sink{NewFileSink(cfg.LogPath)}
	if mirror != nil {
		sinks = append(sinks, mirror)
	}
	return NewMultiSink(sinks...)
}
