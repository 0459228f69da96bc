package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "EVENTD_DATA_DIR"
	// DefaultDataDirName 用户目录下的默认数据目录名
	DefaultDataDirName = ".eventd"
	// AuditLogFileName 默认审计日志文件名
	AuditLogFileName = "event_history.log"
)

// DataDir 数据根目录，每次调用重新读取 EVENTD_DATA_DIR
// 未设置时为 ~/.eventd，取不到用户目录时为相对路径 .eventd
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDirName
	}
	return filepath.Join(homeDir, DefaultDataDirName)
}

// DefaultAuditLogPath 数据目录下的审计日志
func DefaultAuditLogPath() string {
	return filepath.Join(DataDir(), AuditLogFileName)
}

// ResolveDataPath 相对路径放到数据目录下，绝对路径和空串原样返回
func ResolveDataPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(DataDir(), p)
}
