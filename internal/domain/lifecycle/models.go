package lifecycle

import "time"

// TaskStatus 周期任务运行状态（用于调试）
type TaskStatus struct {
	// Name 任务名
	Name string `json:"name"`
	// Interval 触发间隔
	Interval string `json:"interval"`
	// Running 当前是否有一次执行尚未结束
	Running bool `json:"running"`
	// Runs 已完成的执行次数
	Runs int64 `json:"runs"`
	// Skipped 因上一次未结束而跳过的次数
	Skipped int64 `json:"skipped"`
	// LastRunAt 最近一次执行开始时间
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	// LastError 最近一次执行的错误
	LastError string `json:"last_error,omitempty"`
}

// LifecycleStatus 生命周期状态
type LifecycleStatus struct {
	// Scheduler 提醒调度任务
	Scheduler TaskStatus `json:"scheduler"`
	// CompletionLogger 完成事件审计任务
	CompletionLogger TaskStatus `json:"completion_logger"`
	// ReminderHorizon 当前提醒窗口
	ReminderHorizon string `json:"reminder_horizon"`
	// Subscribers 当前在线订阅者数
	Subscribers int `json:"subscribers"`
	// Metrics 引擎指标累计值
	Metrics map[string]int64 `json:"metrics,omitempty"`
}

// 常量定义
const (
	// ReminderHorizon 提醒窗口
	ReminderHorizon = 5 * time.Minute
	// LifecycleTickInterval 提醒调度间隔
	LifecycleTickInterval = 1 * time.Minute
	// LogTickInterval 审计日志写入间隔
	LogTickInterval = 24 * time.Hour
)
