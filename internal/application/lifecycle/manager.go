package lifecycle

import (
	"context"
	"log/slog"

	"github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/application/notification"
	"github.com/eventd/backend/internal/domain/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
)

// MetricsSource 指标快照来源
type MetricsSource interface {
	Snapshot(ctx context.Context) (map[string]int64, error)
}

// Manager 管理引擎的后台任务
type Manager struct {
	scheduler *Scheduler
	completer *CompletionLogger
	events    *event.Service
	notifier  *notification.Service
	metrics   MetricsSource
	logger    *slog.Logger
}

// NewManager 创建生命周期管理器
func NewManager(
	scheduler *Scheduler,
	completer *CompletionLogger,
	events *event.Service,
	notifier *notification.Service,
	metrics MetricsSource,
) *Manager {
	return &Manager{
		scheduler: scheduler,
		completer: completer,
		events:    events,
		notifier:  notifier,
		metrics:   metrics,
		logger:    log.NewModuleLogger("lifecycle", "manager"),
	}
}

// Start 启动提醒调度与审计任务
func (m *Manager) Start() {
	m.scheduler.Start()
	m.completer.Start()
	m.logger.Info("lifecycle manager started")
}

// Stop 停止全部后台任务
func (m *Manager) Stop() {
	m.scheduler.Stop()
	m.completer.Stop()
	m.logger.Info("lifecycle manager stopped")
}

// GetStatus 获取生命周期状态
// 指标采集失败不影响任务状态
func (m *Manager) GetStatus(ctx context.Context) *lifecycle.LifecycleStatus {
	status := &lifecycle.LifecycleStatus{
		Scheduler:        m.scheduler.Status(),
		CompletionLogger: m.completer.Status(),
		ReminderHorizon:  m.scheduler.Horizon().String(),
		Subscribers:      m.notifier.Subscribers(),
	}
	if m.metrics != nil {
		values, err := m.metrics.Snapshot(ctx)
		if err != nil {
			m.logger.Warn("collect metrics failed", "error", err)
		} else {
			status.Metrics = values
		}
	}
	return status
}

// ApplyConfig 热更新冲突窗口与提醒窗口；tick 间隔需要重启生效
func (m *Manager) ApplyConfig(cfg *config.Config) {
	m.events.SetConflictWindow(cfg.Engine.ConflictWindow)
	m.scheduler.SetHorizon(cfg.Engine.ReminderHorizon)
}

// Scheduler 提醒调度器
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// CompletionLogger 审计任务
func (m *Manager) CompletionLogger() *CompletionLogger {
	return m.completer
}
