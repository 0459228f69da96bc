package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	debugMode     bool
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	// 创建 handler options
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	out := openOutput(cfg.Output)

	// 根据格式选择处理器
	var logHandler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		logHandler = slog.NewJSONHandler(out, opts)
	} else {
		logHandler = slog.NewTextHandler(out, opts)
	}

	// 添加服务标识
	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", "eventd"),
	}))

	debugMode = strings.ToLower(cfg.Level) == "debug"

	slog.SetDefault(defaultLogger)
}

// openOutput 解析输出目标：stdout、stderr、file:/path/to/log
// 文件打开失败时回退到 stdout
func openOutput(output string) io.Writer {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		f, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		// 未初始化，使用默认配置
		Init(nil)
	}
	return defaultLogger
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return debugMode
}

// parseLevel 解析日志级别
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
