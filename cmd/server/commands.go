package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/discovery"
	applog "github.com/eventd/backend/internal/infrastructure/log"
	"github.com/eventd/backend/internal/infrastructure/singleton"
	"github.com/eventd/backend/internal/wire"
	"github.com/spf13/cobra"
)

// rootOptions 全局参数
type rootOptions struct {
	ConfigPath string
	Port       string
}

// newRootCommand 根命令：启动服务
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eventd",
		Short: "eventd - event lifecycle and notification engine",
		Long: `eventd stores scheduled events, rejects events that collide within the
conflict window, pushes reminders to websocket subscribers shortly before
an event starts and appends completed events to an audit log.

Example:
  eventd --port 3000
  eventd --config ./eventd.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 初始化日志系统
			applog.Init(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (default $EVENTD_CONFIG)")
	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port or address, overrides PORT")

	cmd.AddCommand(newDiscoverCommand())

	return cmd
}

func runServer(opts *rootOptions) error {
	logger := applog.NewModuleLogger("app", "main")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Port != "" {
		cfg.SetHTTPPort(opts.Port)
	}

	// 单例锁检查：获取到的 listener 直接交给 HTTP 服务器
	listener, err := singleton.Acquire(cfg.Server.HTTPPort)
	if errors.Is(err, singleton.ErrAlreadyRunning) {
		// 已有实例运行，直接退出
		logger.Info("检测到已有实例在运行，当前进程退出", "addr", cfg.Server.HTTPPort)
		return nil
	}
	if err != nil {
		return err
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll(cfg)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	if err := app.Start(listener); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigChan:
		logger.Info("Shutting down application...")
	case serveErr = <-app.Errors():
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
	return serveErr
}

// newDiscoverCommand 查找局域网中的 eventd 实例
func newDiscoverCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find eventd instances advertised on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := discovery.NewBrowser().Browse(context.Background(), timeout)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(services)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to listen for announcements")

	return cmd
}
