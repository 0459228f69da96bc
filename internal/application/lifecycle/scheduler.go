package lifecycle

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/eventd/backend/internal/application/notification"
	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/domain/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/metrics"
)

// SchedulerTaskName 提醒调度任务名
const SchedulerTaskName = "scheduler"

// Scheduler 提醒调度器
// 每个 tick 找出即将开始的待处理事件，先广播提醒再置为 ongoing
type Scheduler struct {
	repo     event.Repository
	notifier *notification.Service
	recorder metrics.Recorder
	clock    func() time.Time
	horizon  atomic.Int64
	task     *PeriodicTask
	logger   *slog.Logger
}

// NewScheduler 创建提醒调度器
func NewScheduler(
	repo event.Repository,
	notifier *notification.Service,
	cfg *config.EngineConfig,
	recorder metrics.Recorder,
) *Scheduler {
	s := &Scheduler{
		repo:     repo,
		notifier: notifier,
		recorder: recorder,
		clock:    time.Now,
		logger:   log.NewModuleLogger("lifecycle", "scheduler"),
	}

	horizon := cfg.ReminderHorizon
	if horizon <= 0 {
		horizon = lifecycle.ReminderHorizon
	}
	s.horizon.Store(int64(horizon))

	interval := cfg.LifecycleTickInterval
	if interval <= 0 {
		interval = lifecycle.LifecycleTickInterval
	}
	s.task = NewPeriodicTask(SchedulerTaskName, interval, func(ctx context.Context) error {
		s.Tick(ctx, s.clock())
		return nil
	}, recorder)

	return s
}

// Horizon 当前提醒窗口
func (s *Scheduler) Horizon() time.Duration {
	return time.Duration(s.horizon.Load())
}

// SetHorizon 更新提醒窗口，下一个 tick 生效
func (s *Scheduler) SetHorizon(horizon time.Duration) {
	if horizon <= 0 {
		return
	}
	old := time.Duration(s.horizon.Swap(int64(horizon)))
	if old != horizon {
		s.logger.Info("reminder horizon updated",
			"old", old.String(),
			"new", horizon.String(),
		)
	}
}

// Tick 执行一次调度，返回本次提升为 ongoing 的事件数
// 过去的事件同样满足条件，重启后也会补发提醒
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	horizon := s.Horizon()
	due := s.repo.FindDueSoon(now, horizon)
	if len(due) == 0 {
		return 0
	}

	promoted := 0
	for _, e := range due {
		s.notifier.NotifyEventSoon(ctx, e, horizon)

		if _, err := s.repo.UpdateStatus(e.ID, event.StatusOngoing); err != nil {
			s.logger.Warn("failed to promote event",
				"event_id", e.ID,
				"error", err,
			)
			continue
		}
		promoted++
		s.recorder.EventPromoted(ctx)
	}

	s.logger.Info("events promoted to ongoing",
		"count", promoted,
		"horizon", horizon.String(),
	)
	return promoted
}

// Start 启动定时调度
func (s *Scheduler) Start() {
	s.task.Start()
}

// Stop 停止定时调度
func (s *Scheduler) Stop() {
	s.task.Stop()
}

// Status 调度任务状态
func (s *Scheduler) Status() lifecycle.TaskStatus {
	return s.task.Status()
}
