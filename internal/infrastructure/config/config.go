package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/domain/lifecycle"
	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvConfigFile            = "EVENTD_CONFIG"
	EnvPort                  = "PORT"
	EnvHTTPPort              = "EVENTD_HTTP_PORT"
	EnvConflictWindowMs      = "EVENTD_CONFLICT_WINDOW_MS"
	EnvReminderHorizonMs     = "EVENTD_REMINDER_HORIZON_MS"
	EnvLifecycleTickInterval = "EVENTD_LIFECYCLE_TICK_INTERVAL"
	EnvLogTickInterval       = "EVENTD_LOG_TICK_INTERVAL"
	EnvAuditLog              = "EVENTD_AUDIT_LOG"
	EnvAuditDB               = "EVENTD_AUDIT_DB"
	EnvAuditDedupe           = "EVENTD_AUDIT_DEDUPE"
	EnvMDNSEnabled           = "EVENTD_MDNS_ENABLED"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Audit     AuditConfig
	WebSocket WebSocketConfig
	Discovery DiscoveryConfig

	// Path 已加载的配置文件路径，空表示未使用配置文件
	Path string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string // 监听地址，同时用于单例锁
}

// EngineConfig 引擎节奏与窗口
type EngineConfig struct {
	ConflictWindow        time.Duration
	ReminderHorizon       time.Duration
	LifecycleTickInterval time.Duration
	LogTickInterval       time.Duration
}

// AuditConfig 审计日志配置
type AuditConfig struct {
	// LogPath 文本审计日志路径
	LogPath string
	// DBPath SQLite 镜像路径，留空表示不启用
	DBPath string
	// Dedupe 开启后已写入的完成事件不再重复写入
	Dedupe bool
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	// SendBufferSize 每个订阅者的发送队列长度，满了就丢弃
	SendBufferSize int
}

// DiscoveryConfig 局域网 mDNS 广播配置
type DiscoveryConfig struct {
	Enabled      bool
	InstanceName string
}

// fileConfig YAML 配置文件结构
// engine 下的键名与对外公布的配置项保持一致
type fileConfig struct {
	Server struct {
		HTTPPort string `yaml:"httpPort"`
	} `yaml:"server"`
	Engine struct {
		ConflictWindowMs      *int64 `yaml:"conflictWindowMs"`
		ReminderHorizonMs     *int64 `yaml:"reminderHorizonMs"`
		LifecycleTickInterval string `yaml:"lifecycleTickInterval"`
		LogTickInterval       string `yaml:"logTickInterval"`
	} `yaml:"engine"`
	Audit struct {
		LogPath string `yaml:"logPath"`
		DBPath  string `yaml:"dbPath"`
		Dedupe  *bool  `yaml:"dedupe"`
	} `yaml:"audit"`
	Discovery struct {
		Enabled      *bool  `yaml:"enabled"`
		InstanceName string `yaml:"instanceName"`
	} `yaml:"discovery"`
}

// NewConfig 创建配置（默认值 + 环境变量）
func NewConfig() *Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// Load 依次应用默认值、配置文件、环境变量
// path 为空时读取 EVENTD_CONFIG
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	cfg := defaultConfig()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if c.Engine.ConflictWindow <= 0 {
		return fmt.Errorf("conflictWindowMs must be positive")
	}
	if c.Engine.ReminderHorizon <= 0 {
		return fmt.Errorf("reminderHorizonMs must be positive")
	}
	if c.Engine.LifecycleTickInterval <= 0 {
		return fmt.Errorf("lifecycleTickInterval must be positive")
	}
	if c.Engine.LogTickInterval <= 0 {
		return fmt.Errorf("logTickInterval must be positive")
	}
	if c.Audit.LogPath == "" {
		return fmt.Errorf("audit log path must not be empty")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":3000",
		},
		Engine: EngineConfig{
			ConflictWindow:        event.DefaultConflictWindow,
			ReminderHorizon:       lifecycle.ReminderHorizon,
			LifecycleTickInterval: lifecycle.LifecycleTickInterval,
			LogTickInterval:       lifecycle.LogTickInterval,
		},
		Audit: AuditConfig{
			LogPath: DefaultAuditLogPath(),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendBufferSize:  256,
		},
		Discovery: DiscoveryConfig{
			InstanceName: "eventd",
		},
	}
}

// applyFile 读取 YAML 配置文件，只覆盖文件中出现的字段
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Server.HTTPPort != "" {
		c.Server.HTTPPort = normalizePort(fc.Server.HTTPPort)
	}
	if fc.Engine.ConflictWindowMs != nil {
		c.Engine.ConflictWindow = time.Duration(*fc.Engine.ConflictWindowMs) * time.Millisecond
	}
	if fc.Engine.ReminderHorizonMs != nil {
		c.Engine.ReminderHorizon = time.Duration(*fc.Engine.ReminderHorizonMs) * time.Millisecond
	}
	if fc.Engine.LifecycleTickInterval != "" {
		d, err := time.ParseDuration(fc.Engine.LifecycleTickInterval)
		if err != nil {
			return fmt.Errorf("invalid lifecycleTickInterval: %w", err)
		}
		c.Engine.LifecycleTickInterval = d
	}
	if fc.Engine.LogTickInterval != "" {
		d, err := time.ParseDuration(fc.Engine.LogTickInterval)
		if err != nil {
			return fmt.Errorf("invalid logTickInterval: %w", err)
		}
		c.Engine.LogTickInterval = d
	}
	if fc.Audit.LogPath != "" {
		c.Audit.LogPath = ResolveDataPath(fc.Audit.LogPath)
	}
	if fc.Audit.DBPath != "" {
		c.Audit.DBPath = ResolveDataPath(fc.Audit.DBPath)
	}
	if fc.Audit.Dedupe != nil {
		c.Audit.Dedupe = *fc.Audit.Dedupe
	}
	if fc.Discovery.Enabled != nil {
		c.Discovery.Enabled = *fc.Discovery.Enabled
	}
	if fc.Discovery.InstanceName != "" {
		c.Discovery.InstanceName = fc.Discovery.InstanceName
	}

	c.Path = path
	return nil
}

// applyEnv 环境变量覆盖；非法取值忽略并保留原值
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvPort); port != "" {
		c.Server.HTTPPort = normalizePort(port)
	}
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = normalizePort(port)
	}
	if ms, ok := envInt(EnvConflictWindowMs); ok {
		c.Engine.ConflictWindow = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := envInt(EnvReminderHorizonMs); ok {
		c.Engine.ReminderHorizon = time.Duration(ms) * time.Millisecond
	}
	if d, ok := envDuration(EnvLifecycleTickInterval); ok {
		c.Engine.LifecycleTickInterval = d
	}
	if d, ok := envDuration(EnvLogTickInterval); ok {
		c.Engine.LogTickInterval = d
	}
	if v := os.Getenv(EnvAuditLog); v != "" {
		c.Audit.LogPath = v
	}
	if v := os.Getenv(EnvAuditDB); v != "" {
		c.Audit.DBPath = v
	}
	if b, ok := envBool(EnvAuditDedupe); ok {
		c.Audit.Dedupe = b
	}
	if b, ok := envBool(EnvMDNSEnabled); ok {
		c.Discovery.Enabled = b
	}
}

// SetHTTPPort 命令行覆盖监听地址
func (c *Config) SetHTTPPort(port string) {
	c.Server.HTTPPort = normalizePort(port)
}

// normalizePort 兼容 "3000" 与 ":3000" 两种写法
func normalizePort(port string) string {
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	return port
}

func envInt(key string) (int64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewEngineConfig 创建引擎配置
func NewEngineConfig(cfg *Config) *EngineConfig {
	return &cfg.Engine
}

// NewAuditConfig 创建审计配置
func NewAuditConfig(cfg *Config) *AuditConfig {
	return &cfg.Audit
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewDiscoveryConfig 创建 mDNS 配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}
