package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider 进程内 MeterProvider
// ManualReader 在读取状态时按需采集，不依赖外部导出器
type Provider struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewProvider 创建 MeterProvider
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	return &Provider{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// ProvideProvider 创建 MeterProvider，cleanup 时关闭
func ProvideProvider() (*Provider, func()) {
	p := NewProvider()
	return p, func() {
		_ = p.Shutdown(context.Background())
	}
}

// MeterProvider 返回 OTel MeterProvider
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.provider
}

// Shutdown 关闭 MeterProvider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

// Snapshot 采集当前累计值
// 计数器按数据点求和；直方图输出 <name>.count
func (p *Provider) Snapshot(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	values := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				values[m.Name] = total
			case metricdata.Histogram[float64]:
				var count uint64
				for _, dp := range data.DataPoints {
					count += dp.Count
				}
				values[m.Name+".count"] = int64(count)
			}
		}
	}
	return values, nil
}
