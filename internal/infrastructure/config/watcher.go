package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/eventd/backend/internal/infrastructure/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce 编辑器保存时往往连续触发多次写事件
const reloadDebounce = 200 * time.Millisecond

// Watcher 监听配置文件变化并重新加载
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	callbacks []func(*Config)
	timer     *time.Timer

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher 创建配置监听器；cfg.Path 为空时 Start 不做任何事
func NewWatcher(cfg *Config) *Watcher {
	return &Watcher{
		path:   cfg.Path,
		logger: log.NewModuleLogger("config", "watcher"),
		stopCh: make(chan struct{}),
	}
}

// OnReload 注册重新加载回调
func (w *Watcher) OnReload(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start 开始监听
func (w *Watcher) Start() error {
	if w.path == "" {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// 监听目录而不是文件，兼容“写临时文件再重命名”的保存方式
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	w.watcher = fsw

	w.wg.Add(1)
	go w.loop()

	w.logger.Info("config watcher started", "path", w.path)
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	close(w.stopCh)
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous values",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.mu.Lock()
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("config reloaded",
		"conflict_window", cfg.Engine.ConflictWindow.String(),
		"reminder_horizon", cfg.Engine.ReminderHorizon.String(),
	)
	for _, fn := range callbacks {
		fn(cfg)
	}
}
