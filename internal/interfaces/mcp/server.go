package mcp

import (
	"log/slog"
	"net/http"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName MCP 服务名
const ServerName = "eventd"

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	events  *appevent.Service
	manager *lifecycle.Manager
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(events *appevent.Service, manager *lifecycle.Manager) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:  server,
		events:  events,
		manager: manager,
		logger:  log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_event",
		Description: "Create a scheduled event. Parameters: title (string, required); description (string, optional); scheduled_time (string, required) - RFC3339 timestamp, e.g. 2024-01-01T10:00:00Z. Fails when another non-completed event is scheduled within the conflict window (1 hour by default). Returns: event_id.",
	}, s.createEventTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "List events in creation order. Parameters: status (string, optional) - exact status filter such as pending, ongoing or completed. Returns: events and count.",
	}, s.listEventsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_event_status",
		Description: "Overwrite the status of an event. Parameters: id (string, required); status (string, required) - any non-empty status, usually completed. Returns: the updated event.",
	}, s.setEventStatusTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_lifecycle_status",
		Description: "Get the state of the reminder scheduler and the completion logger. No parameters required.",
	}, s.getLifecycleStatusTool)

	// 创建 SSE Handler
	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	return s
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}
