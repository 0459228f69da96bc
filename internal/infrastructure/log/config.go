package log

import (
	"os"
	"strconv"
	"strings"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `json:"level" env:"LOG_LEVEL"`

	// Format 日志格式：console, json
	Format string `json:"format" env:"LOG_FORMAT"`

	// Output 输出目标：stdout, stderr, file:/path/to/log
	Output string `json:"output" env:"LOG_OUTPUT"`

	// AddSource 是否添加源文件信息
	AddSource bool `json:"add_source" env:"LOG_ADD_SOURCE"`
}

// EnvPrefix 优先读取带前缀的变量，避免与同机其他服务的 LOG_* 冲突
const EnvPrefix = "EVENTD_"

// NewConfigFromEnv 从环境变量创建配置
// EVENTD_LOG_LEVEL 优先于 LOG_LEVEL，其余同理
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     getEnvWithDefault("LOG_LEVEL", "info"),
		Format:    getEnvWithDefault("LOG_FORMAT", "console"),
		Output:    getEnvWithDefault("LOG_OUTPUT", "stdout"),
		AddSource: getEnvBool("LOG_ADD_SOURCE", false),
	}

	// 开发环境强制 debug + 源文件信息
	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}

	return cfg
}

// isDevelopment 检查是否为开发环境
func isDevelopment() bool {
	return strings.ToLower(getEnvWithDefault("ENV", "production")) == "development"
}

// lookupEnv 先查 EVENTD_ 前缀，再查原名
func lookupEnv(key string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return os.Getenv(key)
}

// getEnvWithDefault 获取环境变量，带默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔型环境变量，非法值返回默认值
func getEnvBool(key string, defaultValue bool) bool {
	value := lookupEnv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}
