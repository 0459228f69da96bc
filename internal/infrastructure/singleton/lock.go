// Package singleton 保证同一地址上只运行一个 eventd 实例
package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// HealthCheckTimeout 健康检查超时时间
const HealthCheckTimeout = 2 * time.Second

// ErrAlreadyRunning 已有健康实例在该地址上服务
var ErrAlreadyRunning = errors.New("eventd is already running on this address")

// Acquire 尝试独占监听地址
// 地址被占用时探测 /health：健康则返回 ErrAlreadyRunning，否则返回错误
func Acquire(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		return nil, ErrAlreadyRunning
	}
	return nil, fmt.Errorf("address %s is in use but the health check failed", addr)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 10048 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// healthURL 由监听地址推导健康检查地址
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://localhost%s/health", addr)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port))
}

// isInstanceRunning 检查是否有实例在运行
func isInstanceRunning(addr string) bool {
	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}

	resp, err := client.Get(healthURL(addr))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
