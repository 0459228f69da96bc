//go:build integration
// +build integration

// TestDaemon 管理独立 eventd 进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name     string // 角色名称
	HTTPPort int    // HTTP 端口
	DataDir  string // 数据目录（隔离）

	env     []string
	cmd     *exec.Cmd
	baseURL string
}

// DaemonOption 守护进程配置选项
type DaemonOption func(*TestDaemon)

// WithEnv 追加环境变量（如缩短 tick 间隔）
func WithEnv(kv ...string) DaemonOption {
	return func(d *TestDaemon) {
		d.env = append(d.env, kv...)
	}
}

// WithPort 使用指定端口（用于单例场景）
func WithPort(port int) DaemonOption {
	return func(d *TestDaemon) {
		d.HTTPPort = port
		d.baseURL = fmt.Sprintf("http://localhost:%d", port)
	}
}

// NewTestDaemon 创建测试守护进程
func NewTestDaemon(binaryPath, name string, opts ...DaemonOption) (*TestDaemon, error) {
	// 分配空闲端口
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}

	// 创建隔离的数据目录
	dataDir, err := os.MkdirTemp("", fmt.Sprintf("eventd-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
		DataDir:  dataDir,
		baseURL:  fmt.Sprintf("http://localhost:%d", httpPort),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.cmd = exec.Command(binaryPath)
	d.cmd.Env = append(os.Environ(),
		fmt.Sprintf("EVENTD_DATA_DIR=%s", dataDir),
		fmt.Sprintf("EVENTD_HTTP_PORT=:%d", d.HTTPPort),
		"EVENTD_MDNS_ENABLED=false",
		"GIN_MODE=test",
	)
	d.cmd.Env = append(d.cmd.Env, d.env...)
	d.cmd.Stdout = os.Stdout
	d.cmd.Stderr = os.Stderr

	return d, nil
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	// 等待 health 端点就绪
	return d.waitForReady(30 * time.Second)
}

// Run 前台运行直到进程退出（用于单例场景）
func (d *TestDaemon) Run(timeout time.Duration) error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- d.cmd.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = d.cmd.Process.Kill()
		<-done
		return fmt.Errorf("daemon %s did not exit within %v", d.Name, timeout)
	}
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	if d.cmd.Process != nil && d.cmd.ProcessState == nil {
		// 发送关闭信号
		_ = d.cmd.Process.Signal(os.Interrupt)

		// 等待进程退出（最多 5 秒）
		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			// 强制杀进程
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	return os.RemoveAll(d.DataDir)
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// WebSocketURL 返回订阅通道地址
func (d *TestDaemon) WebSocketURL() string {
	return fmt.Sprintf("ws://localhost:%d/ws", d.HTTPPort)
}

// AuditLogPath 默认审计日志路径
func (d *TestDaemon) AuditLogPath() string {
	return filepath.Join(d.DataDir, "event_history.log")
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
