//go:build integration
// +build integration

package framework

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// EnvTestBinary 指向预先构建的 eventd，设置后跳过编译
const EnvTestBinary = "EVENTD_TEST_BINARY"

var (
	// BinaryPath 被测 eventd 二进制路径
	BinaryPath string
	// buildDir 本次编译产生的临时目录，使用预构建二进制时为空
	buildDir string
)

// PrepareBinary 准备被测二进制：优先使用 EVENTD_TEST_BINARY，否则从 cmd/server 编译
func PrepareBinary() error {
	if prebuilt := os.Getenv(EnvTestBinary); prebuilt != "" {
		if _, err := os.Stat(prebuilt); err != nil {
			return fmt.Errorf("%s points to a missing binary: %w", EnvTestBinary, err)
		}
		BinaryPath = prebuilt
		return nil
	}

	goBin, err := exec.LookPath("go")
	if err != nil {
		return fmt.Errorf("go toolchain not found, set %s to a built eventd binary: %w", EnvTestBinary, err)
	}

	_, currentFile, _, _ := runtime.Caller(0)
	moduleRoot := filepath.Join(filepath.Dir(currentFile), "..", "..", "..")

	dir, err := os.MkdirTemp("", "eventd-it-")
	if err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	buildDir = dir

	name := "eventd"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	BinaryPath = filepath.Join(dir, name)

	cmd := exec.Command(goBin, "build", "-o", BinaryPath, "./cmd/server")
	cmd.Dir = moduleRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build eventd: %w", err)
	}
	return nil
}

// Cleanup 删除编译产物，预构建二进制保持不动
func Cleanup() {
	if buildDir != "" {
		os.RemoveAll(buildDir)
		buildDir = ""
	}
}

// RequireBinary 被测二进制必须已就绪
func RequireBinary(t *testing.T) {
	t.Helper()
	if BinaryPath == "" {
		t.Fatal("eventd binary not prepared, call PrepareBinary() in TestMain")
	}
	if _, err := os.Stat(BinaryPath); err != nil {
		t.Fatalf("eventd binary not found at %s: %v", BinaryPath, err)
	}
}
