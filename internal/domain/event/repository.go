package event

import "time"

// Repository 事件仓储接口
// 每个方法都是原子的；返回值均为副本
type Repository interface {
	// Insert 在同一临界区内完成冲突检测与插入，冲突时返回 *ConflictError
	Insert(e *Event, window time.Duration) error

	// FindByID 不存在时返回 *NotFoundError
	FindByID(id string) (*Event, error)

	// FindAll 按插入顺序返回；status 为空表示不过滤
	FindAll(status Status) []*Event

	// UpdateStatus 无条件覆盖状态，不存在时返回 *NotFoundError
	UpdateStatus(id string, status Status) (*Event, error)

	// FindDueSoon 待处理且计划时间不晚于 now+horizon 的事件，不修改状态
	FindDueSoon(now time.Time, horizon time.Duration) []*Event

	// FindCompleted 所有已完成事件；unloggedOnly 为 true 时跳过已写入审计的事件
	FindCompleted(unloggedOnly bool) []*Event

	// MarkLogged 记录审计写入时间（仅审计去重模式使用）
	MarkLogged(ids []string, at time.Time)
}
