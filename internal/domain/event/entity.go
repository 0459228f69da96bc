package event

import "time"

// Status 事件状态
// 除内置的三种状态外，显式更新允许任意非空字符串
type Status string

const (
	// StatusPending 已创建，等待开始
	StatusPending Status = "pending"
	// StatusOngoing 进入提醒窗口后由调度器自动设置
	StatusOngoing Status = "ongoing"
	// StatusCompleted 已完成，不再参与冲突检测
	StatusCompleted Status = "completed"
)

// IsKnown 是否为内置状态
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Event 事件实体
type Event struct {
	ID            string     // 创建时分配，不可变
	Title         string     // 标题
	Description   string     // 描述
	ScheduledTime time.Time  // 计划时间
	Status        Status     // 当前状态
	CreatedAt     time.Time  // 创建时间
	LoggedAt      *time.Time // 审计去重开启时，最近一次写入审计日志的时间
}

// NewEvent 创建待处理事件
func NewEvent(id, title, description string, scheduledTime time.Time, now time.Time) *Event {
	return &Event{
		ID:            id,
		Title:         title,
		Description:   description,
		ScheduledTime: scheduledTime,
		Status:        StatusPending,
		CreatedAt:     now,
	}
}

// IsCompleted 是否已完成
func (e *Event) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// IsDueWithin 待处理且计划时间不晚于 now+horizon
func (e *Event) IsDueWithin(now time.Time, horizon time.Duration) bool {
	return e.Status == StatusPending && !e.ScheduledTime.After(now.Add(horizon))
}

// Clone 返回副本，仓储对外只暴露副本
func (e *Event) Clone() *Event {
	c := *e
	if e.LoggedAt != nil {
		t := *e.LoggedAt
		c.LoggedAt = &t
	}
	return &c
}
