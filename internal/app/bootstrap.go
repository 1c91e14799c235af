package app

import (
	"errors"
	"fmt"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/provider"
	"github.com/desbrava-pizza/internal/router"
	"github.com/desbrava-pizza/internal/worker"
)

// ErrUnknownMode 启动模式无效
var ErrUnknownMode = errors.New("unknown mode")

// ValidateMode 校验启动模式
func ValidateMode(mode string) error {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return nil
	default:
		return fmt.Errorf("%w: %q (all|api|worker)", ErrUnknownMode, mode)
	}
}

// BuildRunner 按模式组装 HTTP 与 worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)
	if created, err := container.ClubService.EnsureDefault(); err != nil {
		logger.Warnw("app_default_club_init_failed", "error", err)
	} else if created {
		logger.Infow("app_default_club_created")
	}

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeWorker:
			return nil, err
		default:
			// all 模式下队列未启用时仅运行 HTTP
			logger.Warnw("app_worker_skipped", "error", err)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
