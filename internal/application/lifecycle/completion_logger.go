package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/domain/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/metrics"
)

// CompletionLoggerTaskName 审计任务名
const CompletionLoggerTaskName = "completion_logger"

// AuditSink 审计写入接口（定义在 application 层）
type AuditSink interface {
	Append(ctx context.Context, events []*event.Event) error
}

// CompletionLogger 定期把已完成事件追加到审计日志
// 默认不去重：仍处于 completed 的事件每次都会再写一行
type CompletionLogger struct {
	repo     event.Repository
	sink     AuditSink
	dedupe   bool
	recorder metrics.Recorder
	clock    func() time.Time
	task     *PeriodicTask
	logger   *slog.Logger
}

// NewCompletionLogger 创建审计任务
func NewCompletionLogger(
	repo event.Repository,
	sink AuditSink,
	auditCfg *config.AuditConfig,
	engineCfg *config.EngineConfig,
	recorder metrics.Recorder,
) *CompletionLogger {
	l := &CompletionLogger{
		repo:     repo,
		sink:     sink,
		dedupe:   auditCfg.Dedupe,
		recorder: recorder,
		clock:    time.Now,
		logger:   log.NewModuleLogger("lifecycle", "completion_logger"),
	}

	interval := engineCfg.LogTickInterval
	if interval <= 0 {
		interval = lifecycle.LogTickInterval
	}
	l.task = NewPeriodicTask(CompletionLoggerTaskName, interval, l.Run, recorder)

	return l
}

// Run 执行一次审计写入
// 写入失败时返回错误，由下一个 tick 自然重试
func (l *CompletionLogger) Run(ctx context.Context) error {
	completed := l.repo.FindCompleted(l.dedupe)
	if len(completed) == 0 {
		return nil
	}

	if err := l.sink.Append(ctx, completed); err != nil {
		l.recorder.AuditFailure(ctx)
		return fmt.Errorf("failed to append %d audit records: %w", len(completed), err)
	}
	l.recorder.AuditRecords(ctx, len(completed))

	if l.dedupe {
		ids := make([]string, 0, len(completed))
		for _, e := range completed {
			ids = append(ids, e.ID)
		}
		l.repo.MarkLogged(ids, l.clock())
	}

	l.logger.Info("completed events logged",
		"count", len(completed),
		"dedupe", l.dedupe,
	)
	return nil
}

// RunOnce 通过周期任务立即执行一次（与定时执行互斥）
func (l *CompletionLogger) RunOnce(ctx context.Context) error {
	return l.task.RunOnce(ctx)
}

// Start 启动定时审计
func (l *CompletionLogger) Start() {
	l.task.Start()
}

// Stop 停止定时审计
func (l *CompletionLogger) Stop() {
	l.task.Stop()
}

// Status 审计任务状态
func (l *CompletionLogger) Status() lifecycle.TaskStatus {
	return l.task.Status()
}
