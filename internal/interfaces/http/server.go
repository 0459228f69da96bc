package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/interfaces/http/handler"
	"github.com/eventd/backend/internal/interfaces/http/middleware"
	"github.com/eventd/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eventd/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	eventHandler *handler.EventHandler,
	wsHandler *handler.WebSocketHandler,
	lifecycleHandler *handler.LifecycleHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 事件相关路由
		events := api.Group("/events")
		{
			events.POST("", eventHandler.Create)
			events.GET("", eventHandler.List)
			events.GET("/calendar.ics", eventHandler.Calendar)
			events.GET("/:id", eventHandler.Get)
			events.PATCH("/:id/status", eventHandler.UpdateStatus)
		}

		// 生命周期相关路由
		api.GET("/lifecycle/status", lifecycleHandler.GetStatus)
		api.POST("/lifecycle/audit", lifecycleHandler.RunAudit)
	}

	// 实时提醒通道
	router.GET("/ws", wsHandler.Serve)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		logger:   logger,
	}
}

// Handler 路由（测试用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Start 在已获取的监听器上启动服务器（阻塞）
// listener 由单例锁提供，为 nil 时自行监听 httpPort
func (s *HTTPServer) Start(listener net.Listener) error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	var err error
	if listener != nil {
		err = s.server.Serve(listener)
	} else {
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
