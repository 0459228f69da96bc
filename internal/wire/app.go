package wire

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/discovery"
	applog "github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/websocket"
	"github.com/eventd/backend/internal/interfaces"
)

// shutdownTimeout HTTP 优雅关闭超时
const shutdownTimeout = 5 * time.Second

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer
	wsHub      *websocket.Hub
	manager    *lifecycle.Manager
	watcher    *config.Watcher
	advertiser *discovery.Advertiser
	logger     *slog.Logger

	errCh chan error
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	manager *lifecycle.Manager,
	watcher *config.Watcher,
	advertiser *discovery.Advertiser,
) *App {
	return &App{
		HTTPServer: httpServer,
		MCPServer:  mcpServer,
		wsHub:      wsHub,
		manager:    manager,
		watcher:    watcher,
		advertiser: advertiser,
		logger:     applog.NewModuleLogger("app", "main"),
		errCh:      make(chan error, 1),
	}
}

// Start 启动所有服务
// listener 由单例锁获取，HTTP 服务器直接在其上提供服务
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting eventd application")

	// 配置热更新：冲突窗口与提醒窗口
	a.watcher.OnReload(a.manager.ApplyConfig)
	if err := a.watcher.Start(); err != nil {
		a.logger.Error("Failed to start config watcher",
			"error", err,
		)
	}

	// 启动提醒调度与审计任务
	a.manager.Start()

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(listener); err != nil {
			a.logger.Error("HTTP server exited",
				"error", err,
			)
			a.errCh <- err
		}
	}()

	// 局域网广播失败不影响主流程
	if a.advertiser.Enabled() {
		if err := a.advertiser.Start(a.HTTPServer.Addr()); err != nil {
			a.logger.Warn("Failed to start mDNS advertiser",
				"error", err,
			)
		}
	}

	a.logger.Info("eventd application started successfully",
		"addr", a.HTTPServer.Addr(),
	)

	// MCP 服务器通过 HTTP Handler 提供服务，已在 HTTP 服务器中注册 /mcp/sse 端点
	return nil
}

// Errors HTTP 服务器异常退出时收到错误
func (a *App) Errors() <-chan error {
	return a.errCh
}

// Stop 停止所有服务
// 后台任务先停止，正在执行的审计写入会跑完
func (a *App) Stop() error {
	a.logger.Info("Stopping eventd application")

	a.advertiser.Stop()
	a.watcher.Stop()
	a.manager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	// 关闭所有订阅者连接
	a.wsHub.Close()

	a.logger.Info("eventd application stopped successfully")
	return nil
}
