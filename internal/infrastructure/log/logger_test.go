package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "LOG_ADD_SOURCE"} {
			t.Setenv(key, "")
			t.Setenv(EnvPrefix+key, "")
		}
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
		assert.False(t, cfg.AddSource)
	})

	t.Run("custom config", func(t *testing.T) {
		t.Setenv("ENV", "")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
	})

	t.Run("EVENTD_ 前缀优先", func(t *testing.T) {
		t.Setenv("ENV", "")
		t.Setenv("LOG_LEVEL", "error")
		t.Setenv("EVENTD_LOG_LEVEL", "warn")
		t.Setenv("EVENTD_LOG_OUTPUT", "stderr")
		t.Setenv("EVENTD_LOG_ADD_SOURCE", "true")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, "stderr", cfg.Output)
		assert.True(t, cfg.AddSource)
	})

	t.Run("development mode", func(t *testing.T) {
		t.Setenv("ENV", "development")
		t.Setenv("LOG_LEVEL", "error") // 应该被覆盖
		t.Setenv("LOG_FORMAT", "json")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.True(t, cfg.AddSource)
	})
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		defaultValue bool
		envValue     string
		expected     bool
	}{
		{"true value", false, "true", true},
		{"false value", true, "false", false},
		{"invalid value", true, "invalid", true},
		{"missing env", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EVENTD_TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, getEnvBool("EVENTD_TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventd.log")
	Init(&Config{Level: "debug", Format: "json", Output: "file:" + path})
	defer Init(&Config{Level: "info", Format: "console", Output: "stdout"})

	assert.True(t, IsDebugMode())
	NewModuleLogger("test", "component").Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
	assert.Contains(t, string(data), `"module":"test"`)
	assert.Contains(t, string(data), `"service":"eventd"`)
}

func TestGetLogger_LazyInit(t *testing.T) {
	defaultLogger = nil
	assert.NotNil(t, GetLogger())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithEventID(WithRequestID(context.Background(), "req-1"), "evt-1")
	FromContext(ctx, base).Info("with context")

	out := buf.String()
	assert.True(t, strings.Contains(out, "request_id=req-1"))
	assert.True(t, strings.Contains(out, "event_id=evt-1"))

	assert.Same(t, base, FromContext(context.Background(), base), "无上下文字段时返回原 logger")
}
