package metrics

import (
	"context"
	"time"
)

// NoopRecorder 不记录任何指标
type NoopRecorder struct{}

func (NoopRecorder) EventCreated(context.Context) {}
func (NoopRecorder) EventConflict(context.Context) {}
func (NoopRecorder) ReminderSent(context.Context, int) {}
func (NoopRecorder) EventPromoted(context.Context) {}
func (NoopRecorder) AuditRecords(context.Context, int) {}
func (NoopRecorder) AuditFailure(context.Context) {}
func (NoopRecorder) TickSkipped(context.Context, string) {}
func (NoopRecorder) TickCompleted(context.Context, string, time.Duration, error) {}

var _ Recorder = NoopRecorder{}
