package log

import (
	"context"
	"log/slog"
)

// contextKey 避免与其他包的上下文键冲突
type contextKey string

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID contextKey = "request_id"

	// EventContextID 事件 ID
	EventContextID contextKey = "event_id"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithEventID 在上下文中添加事件 ID
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, EventContextID, eventID)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if requestID, ok := ctx.Value(RequestContextID).(string); ok {
		attrs = append(attrs, slog.String(string(RequestContextID), requestID))
	}
	if eventID, ok := ctx.Value(EventContextID).(string); ok {
		attrs = append(attrs, slog.String(string(EventContextID), eventID))
	}

	return attrs
}

// FromContext 返回附带上下文字段的 logger
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := LogCtxFromContext(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return logger.With(args...)
}
