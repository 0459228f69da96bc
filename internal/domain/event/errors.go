package event

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConflict 与已有未完成事件时间冲突
	ErrConflict = errors.New("event conflicts with an existing event")
	// ErrNotFound 事件不存在
	ErrNotFound = errors.New("event not found")
)

// ConflictError 创建被拒绝：窗口内存在未完成事件
type ConflictError struct {
	ExistingID    string
	ExistingTime  time.Time
	CandidateTime time.Time
	Window        time.Duration
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s at %s is within %s of %s",
		ErrConflict.Error(),
		e.ExistingID,
		e.ExistingTime.UTC().Format(time.RFC3339),
		e.Window,
		e.CandidateTime.UTC().Format(time.RFC3339),
	)
}

// Unwrap 支持 errors.Is(err, ErrConflict)
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError 状态更新目标不存在
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.ID)
}

// Unwrap 支持 errors.Is(err, ErrNotFound)
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Kind 错误类别
type Kind int

const (
	// KindUnknown 非领域错误
	KindUnknown Kind = iota
	// KindConflict 冲突
	KindConflict
	// KindNotFound 不存在
	KindNotFound
)

// KindOf 返回错误类别，调用方按类别分支而非比较错误文本
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
