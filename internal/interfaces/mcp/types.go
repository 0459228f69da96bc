package mcp

import (
	"time"

	appevent "github.com/eventd/backend/internal/application/event"
	domainLifecycle "github.com/eventd/backend/internal/domain/lifecycle"
)

// CreateEventInput 创建事件工具输入
type CreateEventInput struct {
	Title         string `json:"title" jsonschema:"事件标题"`
	Description   string `json:"description,omitempty" jsonschema:"事件描述"`
	ScheduledTime string `json:"scheduled_time" jsonschema:"计划时间，RFC3339 格式，如 2024-01-01T10:00:00Z"`
}

// CreateEventOutput 创建事件工具输出
type CreateEventOutput struct {
	EventID string `json:"event_id" jsonschema:"新事件 ID"`
	Message string `json:"message" jsonschema:"提示信息"`
}

// ListEventsInput 列出事件工具输入
type ListEventsInput struct {
	Status string `json:"status,omitempty" jsonschema:"状态过滤，精确匹配"`
}

// ListEventsOutput 列出事件工具输出
type ListEventsOutput struct {
	Events []EventOutput `json:"events" jsonschema:"事件列表"`
	Count  int           `json:"count" jsonschema:"事件数量"`
}

// SetEventStatusInput 更新状态工具输入
type SetEventStatusInput struct {
	ID     string `json:"id" jsonschema:"事件 ID"`
	Status string `json:"status" jsonschema:"新状态"`
}

// EventOutput 事件
type EventOutput struct {
	ID            string `json:"id" jsonschema:"事件 ID"`
	Title         string `json:"title" jsonschema:"标题"`
	Description   string `json:"description" jsonschema:"描述"`
	ScheduledTime string `json:"scheduled_time" jsonschema:"计划时间（UTC）"`
	Status        string `json:"status" jsonschema:"状态"`
}

// LifecycleStatusInput 生命周期状态工具输入（空输入）
type LifecycleStatusInput struct{}

// LifecycleStatusOutput 生命周期状态工具输出
type LifecycleStatusOutput struct {
	Scheduler        TaskOutput       `json:"scheduler" jsonschema:"提醒调度任务"`
	CompletionLogger TaskOutput       `json:"completion_logger" jsonschema:"审计任务"`
	ReminderHorizon  string           `json:"reminder_horizon" jsonschema:"提醒窗口"`
	Subscribers      int              `json:"subscribers" jsonschema:"在线订阅者数"`
	Metrics          map[string]int64 `json:"metrics,omitempty" jsonschema:"引擎指标累计值"`
}

// TaskOutput 周期任务状态
type TaskOutput struct {
	Interval  string `json:"interval" jsonschema:"触发间隔"`
	Running   bool   `json:"running" jsonschema:"是否执行中"`
	Runs      int64  `json:"runs" jsonschema:"已执行次数"`
	Skipped   int64  `json:"skipped" jsonschema:"跳过次数"`
	LastError string `json:"last_error,omitempty" jsonschema:"最近一次错误"`
}

func toEventOutput(dto *appevent.EventDTO) EventOutput {
	return EventOutput{
		ID:            dto.ID,
		Title:         dto.Title,
		Description:   dto.Description,
		ScheduledTime: dto.ScheduledTime.UTC().Format(time.RFC3339),
		Status:        dto.Status,
	}
}

func toTaskOutput(s domainLifecycle.TaskStatus) TaskOutput {
	return TaskOutput{
		Interval:  s.Interval,
		Running:   s.Running,
		Runs:      s.Runs,
		Skipped:   s.Skipped,
		LastError: s.LastError,
	}
}
