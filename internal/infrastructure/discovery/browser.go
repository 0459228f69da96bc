package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/grandcat/zeroconf"
)

// Browser mDNS 服务发现器
type Browser struct {
	logger *slog.Logger
}

// NewBrowser 创建发现器
func NewBrowser() *Browser {
	return &Browser{
		logger: log.NewModuleLogger("discovery", "mdns_browser"),
	}
}

// Browse 在 timeout 内收集局域网中的 eventd 实例
func (b *Browser) Browse(ctx context.Context, timeout time.Duration) ([]ServiceInfo, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 10)
	var (
		mu       sync.Mutex
		services []ServiceInfo
		done     = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			if service := parseServiceEntry(entry); service != nil {
				mu.Lock()
				services = append(services, *service)
				mu.Unlock()
			}
		}
	}()

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := resolver.Browse(browseCtx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse services: %w", err)
	}

	<-browseCtx.Done()
	// resolver 在 ctx 结束后关闭 entries
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()

	b.logger.Debug("mDNS discovery completed", "count", len(services))
	return append([]ServiceInfo(nil), services...), nil
}

// parseServiceEntry 解析服务条目，没有 IPv4 地址的条目忽略
func parseServiceEntry(entry *zeroconf.ServiceEntry) *ServiceInfo {
	if entry == nil {
		return nil
	}

	var ips []string
	for _, ip := range entry.AddrIPv4 {
		ips = append(ips, ip.String())
	}
	if len(ips) == 0 {
		return nil
	}

	txtRecords := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			txtRecords[key] = value
		}
	}

	return &ServiceInfo{
		InstanceName: entry.Instance,
		HostName:     entry.HostName,
		Port:         entry.Port,
		IPs:          ips,
		TxtRecords:   txtRecords,
	}
}
