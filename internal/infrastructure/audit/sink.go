// Package audit 完成事件的审计落盘
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/infrastructure/log"
)

// TimeLayout 审计行中的计划时间格式（UTC，毫秒精度）
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Sink 审计写入目标
type Sink interface {
	Append(ctx context.Context, events []*event.Event) error
}

// FormatRecord 格式化一条审计记录
// 字段不做转义，标题或描述中的逗号和换行会原样写入
func FormatRecord(e *event.Event) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s\n",
		e.ID,
		e.Title,
		e.Description,
		e.ScheduledTime.UTC().Format(TimeLayout),
		e.Status,
	)
}

// FileSink 追加写入文本日志
type FileSink struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileSink 创建文本日志写入器，文件在首次写入时创建
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path:   path,
		logger: log.NewModuleLogger("audit", "file_sink"),
	}
}

// Path 日志文件路径
func (s *FileSink) Path() string {
	return s.path
}

// Append 一批记录拼接后一次写入
func (s *FileSink) Append(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	var b strings.Builder
	for _, e := range events {
		b.WriteString(FormatRecord(e))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}

	s.logger.Debug("audit records appended",
		"path", s.path,
		"count", len(events),
	)
	return nil
}

// MultiSink 依次写入多个目标
// 某个目标失败不影响其余目标，错误合并返回
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink 创建组合写入器
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append 写入全部目标
func (m *MultiSink) Append(ctx context.Context, events []*event.Event) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Append(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len 目标数量
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

// ReadLines 读取日志文件中的全部行，文件不存在时返回空
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
