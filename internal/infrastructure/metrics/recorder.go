// Package metrics 引擎运行指标（OpenTelemetry）
package metrics

import (
	"context"
	"time"

	"github.com/eventd/backend/internal/infrastructure/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName 指标作用域名称
const MeterName = "eventd"

// Recorder 记录引擎指标
// 使用 NewRecorder() 接入 OTel，未启用时使用 NoopRecorder{}
type Recorder interface {
	// EventCreated 事件创建成功
	EventCreated(ctx context.Context)
	// EventConflict 事件因时间冲突被拒绝
	EventConflict(ctx context.Context)
	// ReminderSent 发出一条提醒，delivered 为成功入队的订阅者数
	ReminderSent(ctx context.Context, delivered int)
	// EventPromoted 事件由 pending 进入 ongoing
	EventPromoted(ctx context.Context)
	// AuditRecords 写入审计记录条数
	AuditRecords(ctx context.Context, n int)
	// AuditFailure 审计写入失败
	AuditFailure(ctx context.Context)
	// TickSkipped 上一轮仍在执行，本次 tick 被跳过
	TickSkipped(ctx context.Context, task string)
	// TickCompleted 一轮周期任务执行完成
	TickCompleted(ctx context.Context, task string, duration time.Duration, err error)
}

// OtelRecorder 基于 OpenTelemetry 的 Recorder
type OtelRecorder struct {
	eventsCreated   metric.Int64Counter
	eventsConflicts metric.Int64Counter
	remindersSent   metric.Int64Counter
	deliveries      metric.Int64Counter
	eventsPromoted  metric.Int64Counter
	auditRecords    metric.Int64Counter
	auditFailures   metric.Int64Counter
	ticksSkipped    metric.Int64Counter
	tickLatency     metric.Float64Histogram
}

// NewRecorder 使用给定 MeterProvider 创建 Recorder
func NewRecorder(provider metric.MeterProvider) (*OtelRecorder, error) {
	meter := provider.Meter(MeterName)
	r := &OtelRecorder{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.eventsCreated, "eventd.events.created", "Number of events created"},
		{&r.eventsConflicts, "eventd.events.conflicts", "Number of event creations rejected by the conflict window"},
		{&r.remindersSent, "eventd.reminders.sent", "Number of reminders broadcast"},
		{&r.deliveries, "eventd.reminders.deliveries", "Number of reminder messages queued to subscribers"},
		{&r.eventsPromoted, "eventd.events.promoted", "Number of events promoted to ongoing"},
		{&r.auditRecords, "eventd.audit.records", "Number of audit records appended"},
		{&r.auditFailures, "eventd.audit.failures", "Number of failed audit appends"},
		{&r.ticksSkipped, "eventd.ticks.skipped", "Number of ticks skipped because the previous run was still active"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	tickLatency, err := meter.Float64Histogram("eventd.ticks.latency_ms",
		metric.WithDescription("Periodic task run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	r.tickLatency = tickLatency

	return r, nil
}

// ProvideRecorder 在进程内 MeterProvider 上创建 Recorder
// 初始化失败时退化为 NoopRecorder
func ProvideRecorder(p *Provider) Recorder {
	r, err := NewRecorder(p.MeterProvider())
	if err != nil {
		log.NewModuleLogger("metrics", "recorder").Warn("metrics initialization failed, using no-op recorder",
			"error", err,
		)
		return NoopRecorder{}
	}
	return r
}

// EventCreated 实现 Recorder
func (r *OtelRecorder) EventCreated(ctx context.Context) {
	r.eventsCreated.Add(ctx, 1)
}

// EventConflict 实现 Recorder
func (r *OtelRecorder) EventConflict(ctx context.Context) {
	r.eventsConflicts.Add(ctx, 1)
}

// ReminderSent 实现 Recorder
func (r *OtelRecorder) ReminderSent(ctx context.Context, delivered int) {
	r.remindersSent.Add(ctx, 1)
	if delivered > 0 {
		r.deliveries.Add(ctx, int64(delivered))
	}
}

// EventPromoted 实现 Recorder
func (r *OtelRecorder) EventPromoted(ctx context.Context) {
	r.eventsPromoted.Add(ctx, 1)
}

// AuditRecords 实现 Recorder
func (r *OtelRecorder) AuditRecords(ctx context.Context, n int) {
	r.auditRecords.Add(ctx, int64(n))
}

// AuditFailure 实现 Recorder
func (r *OtelRecorder) AuditFailure(ctx context.Context) {
	r.auditFailures.Add(ctx, 1)
}

// TickSkipped 实现 Recorder
func (r *OtelRecorder) TickSkipped(ctx context.Context, task string) {
	r.ticksSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("task", task)))
}

// TickCompleted 实现 Recorder
func (r *OtelRecorder) TickCompleted(ctx context.Context, task string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("task", task),
		attribute.Bool("success", err == nil),
	)
	r.tickLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

var _ Recorder = (*OtelRecorder)(nil)
