package storage

import (
	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/google/wire"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewMemoryEventRepository, // 内存事件仓储
	ProvideAuditRepository,   // 审计 SQLite 镜像（可选）
	wire.Bind(
		new(event.Repository),
		new(*MemoryEventRepository),
	),
)

// ProvideAuditRepository 按配置打开审计镜像；未配置 DBPath 时返回 nil
func ProvideAuditRepository(cfg *config.AuditConfig) (*AuditRepository, func(), error) {
	if cfg.DBPath == "" {
		return nil, func() {}, nil
	}

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewAuditRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return repo, func() { db.Close() }, nil
}
