package infrastructure

import (
	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/audit"
	"github.com/eventd/backend/internal/infrastructure/calendar"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/discovery"
	"github.com/eventd/backend/internal/infrastructure/metrics"
	"github.com/eventd/backend/internal/infrastructure/notification"
	"github.com/eventd/backend/internal/infrastructure/storage"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	metrics.ProviderSet,
	audit.ProviderSet,
	calendar.ProviderSet,
	discovery.ProviderSet,
	// audit 包不能引用 application/lifecycle（其测试反向依赖 audit），绑定放在这里
	wire.Bind(
		new(lifecycle.AuditSink),
		new(*audit.MultiSink),
	),
	wire.Bind(
		new(lifecycle.MetricsSource),
		new(*metrics.Provider),
	),
)
