package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupRecorder(t *testing.T) (*OtelRecorder, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	r, err := NewRecorder(provider)
	require.NoError(t, err)
	return r, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumOf(t *testing.T, rm *metricdata.ResourceMetrics, name string) int64 {
	m := findMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOtelRecorder_Counters(t *testing.T) {
	r, reader := setupRecorder(t)
	ctx := context.Background()

	r.EventCreated(ctx)
	r.EventCreated(ctx)
	r.EventConflict(ctx)
	r.ReminderSent(ctx, 3)
	r.EventPromoted(ctx)
	r.AuditRecords(ctx, 4)
	r.AuditFailure(ctx)
	r.TickSkipped(ctx, "lifecycle")

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, rm, "eventd.events.created"))
	assert.Equal(t, int64(1), sumOf(t, rm, "eventd.events.conflicts"))
	assert.Equal(t, int64(1), sumOf(t, rm, "eventd.reminders.sent"))
	assert.Equal(t, int64(3), sumOf(t, rm, "eventd.reminders.deliveries"))
	assert.Equal(t, int64(1), sumOf(t, rm, "eventd.events.promoted"))
	assert.Equal(t, int64(4), sumOf(t, rm, "eventd.audit.records"))
	assert.Equal(t, int64(1), sumOf(t, rm, "eventd.audit.failures"))
	assert.Equal(t, int64(1), sumOf(t, rm, "eventd.ticks.skipped"))
}

func TestOtelRecorder_TickCompleted(t *testing.T) {
	r, reader := setupRecorder(t)
	ctx := context.Background()

	r.TickCompleted(ctx, "lifecycle", 5*time.Millisecond, nil)
	r.TickCompleted(ctx, "completion_logger", 7*time.Millisecond, errors.New("disk full"))

	rm := collect(t, reader)
	m := findMetric(rm, "eventd.ticks.latency_ms")
	require.NotNil(t, m)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	ctx := context.Background()
	assert.NotPanics(t, func() {
		r.EventCreated(ctx)
		r.ReminderSent(ctx, 1)
		r.TickCompleted(ctx, "x", time.Second, nil)
	})
}
