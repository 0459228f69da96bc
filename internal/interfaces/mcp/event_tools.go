package mcp

import (
	"context"
	"fmt"
	"time"

	appevent "github.com/eventd/backend/internal/application/event"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createEventTool 创建事件工具
func (s *MCPServer) createEventTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateEventInput,
) (*mcp.CallToolResult, CreateEventOutput, error) {
	if input.Title == "" {
		return nil, CreateEventOutput{}, fmt.Errorf("title is required")
	}
	scheduledTime, err := time.Parse(time.RFC3339, input.ScheduledTime)
	if err != nil {
		return nil, CreateEventOutput{}, fmt.Errorf("invalid scheduled_time %q: %w", input.ScheduledTime, err)
	}

	result, err := s.events.Create(ctx, &appevent.CreateEventDTO{
		Title:         input.Title,
		Description:   input.Description,
		ScheduledTime: scheduledTime,
	})
	if err != nil {
		return nil, CreateEventOutput{}, err
	}

	return nil, CreateEventOutput{
		EventID: result.EventID,
		Message: result.Message,
	}, nil
}

// listEventsTool 列出事件工具
func (s *MCPServer) listEventsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListEventsInput,
) (*mcp.CallToolResult, ListEventsOutput, error) {
	events := s.events.List(ctx, input.Status)

	output := ListEventsOutput{
		Events: make([]EventOutput, 0, len(events)),
		Count:  len(events),
	}
	for _, e := range events {
		output.Events = append(output.Events, toEventOutput(e))
	}
	return nil, output, nil
}

// setEventStatusTool 更新事件状态工具
func (s *MCPServer) setEventStatusTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SetEventStatusInput,
) (*mcp.CallToolResult, EventOutput, error) {
	updated, err := s.events.SetStatus(ctx, input.ID, input.Status)
	if err != nil {
		return nil, EventOutput{}, err
	}
	return nil, toEventOutput(updated), nil
}

// getLifecycleStatusTool 生命周期状态工具
func (s *MCPServer) getLifecycleStatusTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input LifecycleStatusInput,
) (*mcp.CallToolResult, LifecycleStatusOutput, error) {
	status := s.manager.GetStatus(ctx)
	return nil, LifecycleStatusOutput{
		Scheduler:        toTaskOutput(status.Scheduler),
		CompletionLogger: toTaskOutput(status.CompletionLogger),
		ReminderHorizon:  status.ReminderHorizon,
		Subscribers:      status.Subscribers,
		Metrics:          status.Metrics,
	}, nil
}
