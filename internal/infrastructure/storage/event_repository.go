package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/eventd/backend/internal/domain/event"
)

// MemoryEventRepository 内存事件仓储
// 事件只增不删；order 维护插入顺序
type MemoryEventRepository struct {
	mu    sync.RWMutex
	items map[string]*event.Event
	order []string
}

// NewMemoryEventRepository 创建内存事件仓储
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		items: make(map[string]*event.Event),
	}
}

// Insert 冲突检测与插入在同一把写锁内完成
func (r *MemoryEventRepository) Insert(e *event.Event, window time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[e.ID]; exists {
		return fmt.Errorf("duplicate event id: %s", e.ID)
	}

	existing := make([]*event.Event, 0, len(r.order))
	for _, id := range r.order {
		existing = append(existing, r.items[id])
	}
	if conflict := event.FindConflict(existing, e, window); conflict != nil {
		return conflict
	}

	r.items[e.ID] = e.Clone()
	r.order = append(r.order, e.ID)
	return nil
}

// FindByID 根据 ID 查找事件
func (r *MemoryEventRepository) FindByID(id string) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, &event.NotFoundError{ID: id}
	}
	return e.Clone(), nil
}

// FindAll 按插入顺序返回事件快照
func (r *MemoryEventRepository) FindAll(status event.Status) []*event.Event {
	return r.filter(func(e *event.Event) bool {
		return status == "" || e.Status == status
	})
}

// UpdateStatus 覆盖状态，后写者生效
// 状态发生变化时清除审计标记，再次完成的事件会重新写入审计日志
func (r *MemoryEventRepository) UpdateStatus(id string, status event.Status) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return nil, &event.NotFoundError{ID: id}
	}
	if e.Status != status {
		e.LoggedAt = nil
	}
	e.Status = status
	return e.Clone(), nil
}

// FindDueSoon 查找即将开始的待处理事件
func (r *MemoryEventRepository) FindDueSoon(now time.Time, horizon time.Duration) []*event.Event {
	return r.filter(func(e *event.Event) bool {
		return e.IsDueWithin(now, horizon)
	})
}

// FindCompleted 查找已完成事件
func (r *MemoryEventRepository) FindCompleted(unloggedOnly bool) []*event.Event {
	return r.filter(func(e *event.Event) bool {
		if !e.IsCompleted() {
			return false
		}
		return !unloggedOnly || e.LoggedAt == nil
	})
}

// MarkLogged 标记已写入审计日志，未知 ID 忽略
func (r *MemoryEventRepository) MarkLogged(ids []string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if e, ok := r.items[id]; ok {
			t := at
			e.LoggedAt = &t
		}
	}
}

// Count 事件总数
func (r *MemoryEventRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *MemoryEventRepository) filter(match func(e *event.Event) bool) []*event.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*event.Event, 0)
	for _, id := range r.order {
		e := r.items[id]
		if match(e) {
			result = append(result, e.Clone())
		}
	}
	return result
}

// 编译时检查接口实现
var _ event.Repository = (*MemoryEventRepository)(nil)
