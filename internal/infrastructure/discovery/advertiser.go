// Package discovery 局域网 mDNS 服务广播与发现
package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_eventd._tcp"
	// Domain mDNS 域
	Domain = "local."
	// WebSocketPath 订阅通道路径，写入 TXT 记录
	WebSocketPath = "/ws"
)

// ServiceInfo 广播或发现到的服务
type ServiceInfo struct {
	InstanceName string            `json:"instanceName"`
	HostName     string            `json:"hostName,omitempty"`
	Port         int               `json:"port"`
	IPs          []string          `json:"ips,omitempty"`
	TxtRecords   map[string]string `json:"txtRecords"`
}

// Advertiser mDNS 服务广播器
type Advertiser struct {
	mu      sync.Mutex
	cfg     *config.DiscoveryConfig
	server  *zeroconf.Server
	info    *ServiceInfo
	logger  *slog.Logger
	version string
}

// NewAdvertiser 创建广播器
func NewAdvertiser(cfg *config.DiscoveryConfig) *Advertiser {
	return &Advertiser{
		cfg:     cfg,
		logger:  log.NewModuleLogger("discovery", "mdns_advertiser"),
		version: "1",
	}
}

// Enabled 是否启用广播
func (a *Advertiser) Enabled() bool {
	return a.cfg != nil && a.cfg.Enabled
}

// Start 在指定 HTTP 地址对应的端口上开始广播；未启用时直接返回
func (a *Advertiser) Start(httpAddr string) error {
	if !a.Enabled() {
		return nil
	}

	port, err := PortFromAddr(httpAddr)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return fmt.Errorf("advertiser is already running")
	}

	info := ServiceInfo{
		InstanceName: a.cfg.InstanceName,
		Port:         port,
		TxtRecords: map[string]string{
			"ws":      WebSocketPath,
			"version": a.version,
		},
	}
	txt := BuildTxtRecords(info.TxtRecords)

	server, err := zeroconf.Register(
		info.InstanceName, // 实例名称
		ServiceType,       // 服务类型
		Domain,            // 域
		port,              // 端口
		txt,               // TXT 记录
		nil,               // 全部网络接口
	)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	a.info = &info

	a.logger.Info("mDNS advertiser started",
		"instance", info.InstanceName,
		"port", port,
		"txt_records", txt,
	)
	return nil
}

// Stop 停止广播
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
	a.info = nil

	a.logger.Info("mDNS advertiser stopped")
}

// IsRunning 是否正在广播
func (a *Advertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}

// Info 当前广播的服务信息
func (a *Advertiser) Info() *ServiceInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.info == nil {
		return nil
	}
	infoCopy := *a.info
	return &infoCopy
}

// PortFromAddr 从 ":3000" 或 "0.0.0.0:3000" 中取出端口
func PortFromAddr(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid listen port %q", portStr)
	}
	return port, nil
}

// BuildTxtRecords 按 key 排序生成 key=value 列表
func BuildTxtRecords(records map[string]string) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	txt := make([]string, 0, len(keys))
	for _, k := range keys {
		txt = append(txt, fmt.Sprintf("%s=%s", k, records[k]))
	}
	return txt
}
