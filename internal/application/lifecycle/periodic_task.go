package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eventd/backend/internal/domain/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/metrics"
)

// ErrTaskBusy 上一次执行尚未结束
var ErrTaskBusy = errors.New("previous run is still in progress")

// TaskFunc 周期任务体
type TaskFunc func(ctx context.Context) error

// PeriodicTask 固定间隔的后台任务
// 错过的 tick 不补跑；上一次执行未结束时跳过本次 tick
type PeriodicTask struct {
	name     string
	interval time.Duration
	fn       TaskFunc
	recorder metrics.Recorder
	logger   *slog.Logger

	running atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64

	mu        sync.Mutex
	lastRunAt *time.Time
	lastError string
	cancel    context.CancelFunc
	done      chan struct{}

	// bodies 跟踪定时触发的任务体
	bodies sync.WaitGroup
}

// NewPeriodicTask 创建周期任务
func NewPeriodicTask(name string, interval time.Duration, fn TaskFunc, recorder metrics.Recorder) *PeriodicTask {
	return &PeriodicTask{
		name:     name,
		interval: interval,
		fn:       fn,
		recorder: recorder,
		logger:   log.NewModuleLogger("lifecycle", name),
	}
}

// Name 任务名
func (t *PeriodicTask) Name() string {
	return t.name
}

// Start 启动定时循环，重复调用无效
func (t *PeriodicTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.loop(ctx, t.done)

	t.logger.Info("periodic task started", "interval", t.interval.String())
}

// Stop 停止定时循环，并等待正在执行的任务体结束
func (t *PeriodicTask) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.bodies.Wait()

	t.logger.Info("periodic task stopped")
}

// loop 每个 tick 在独立 goroutine 中执行任务体，使慢任务不阻塞计时
func (t *PeriodicTask) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.running.CompareAndSwap(false, true) {
				t.skip(ctx)
				continue
			}
			t.bodies.Add(1)
			go func() {
				defer t.bodies.Done()
				defer t.running.Store(false)
				_ = t.execute(context.Background())
			}()
		}
	}
}

// RunOnce 立即执行一次；上一次执行未结束时返回 ErrTaskBusy
func (t *PeriodicTask) RunOnce(ctx context.Context) error {
	if !t.running.CompareAndSwap(false, true) {
		t.skip(ctx)
		return ErrTaskBusy
	}
	defer t.running.Store(false)
	return t.execute(ctx)
}

func (t *PeriodicTask) skip(ctx context.Context) {
	t.skipped.Add(1)
	t.recorder.TickSkipped(ctx, t.name)
	t.logger.Warn("tick skipped, previous run still in progress")
}

// execute 执行任务体，panic 被恢复为错误
func (t *PeriodicTask) execute(ctx context.Context) (err error) {
	start := time.Now()
	t.mu.Lock()
	t.lastRunAt = &start
	t.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in periodic task %s: %v", t.name, r)
		}

		duration := time.Since(start)
		t.runs.Add(1)
		t.recorder.TickCompleted(ctx, t.name, duration, err)

		t.mu.Lock()
		if err != nil {
			t.lastError = err.Error()
		} else {
			t.lastError = ""
		}
		t.mu.Unlock()

		if err != nil {
			t.logger.Error("periodic task failed",
				"error", err,
				"duration", duration.String(),
			)
			return
		}
		t.logger.Debug("periodic task completed", "duration", duration.String())
	}()

	return t.fn(ctx)
}

// Status 运行状态快照
func (t *PeriodicTask) Status() lifecycle.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := lifecycle.TaskStatus{
		Name:      t.name,
		Interval:  t.interval.String(),
		Running:   t.running.Load(),
		Runs:      t.runs.Load(),
		Skipped:   t.skipped.Load(),
		LastError: t.lastError,
	}
	if t.lastRunAt != nil {
		at := *t.lastRunAt
		status.LastRunAt = &at
	}
	return status
}
