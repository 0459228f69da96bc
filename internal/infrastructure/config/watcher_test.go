package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_NoPathIsNoop(t *testing.T) {
	w := NewWatcher(&Config{})
	require.NoError(t, w.Start())
	w.Stop()
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "eventd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  conflictWindowMs: 3600000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	w := NewWatcher(cfg)
	reloaded := make(chan *Config, 4)
	w.OnReload(func(c *Config) { reloaded <- c })
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  conflictWindowMs: 60000\n"), 0644))

	select {
	case c := <-reloaded:
		assert.Equal(t, time.Minute, c.Engine.ConflictWindow)
	case <-time.After(3 * time.Second):
		t.Fatal("expected config reload")
	}
}

func TestWatcher_InvalidFileKeepsPrevious(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "eventd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  conflictWindowMs: 60000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	w := NewWatcher(cfg)
	called := make(chan struct{}, 1)
	w.OnReload(func(*Config) { called <- struct{}{} })
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("engine: [not a map"), 0644))

	select {
	case <-called:
		t.Fatal("invalid config should not trigger callbacks")
	case <-time.After(600 * time.Millisecond):
	}
}
