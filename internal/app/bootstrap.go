package app

import (
	"errors"

	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/provider"
	"github.com/laundry-pos/internal/router"
	"github.com/laundry-pos/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	services, err := buildServices(cfg, mode, container)
	if err != nil {
		container.Close()
		return nil, nil, err
	}
	return NewRunner(services...), container, nil
}

func buildServices(cfg *config.Config, mode string, container *provider.Container) ([]Service, error) {
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务；all 模式下队列未启用时审计事件同步落库
	if mode == ModeAll || mode == ModeWorker {
		if !cfg.Queue.Enabled && mode == ModeAll {
			logger.Infow("app_worker_skipped", "reason", "queue_disabled")
		} else {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start",
		"host", opts.Config.Server.Host,
		"port", opts.Config.Server.Port,
		"mode", opts.Mode,
		"shutdown_timeout", opts.ShutdownTimeout.String(),
	)
	return RunWithOptions(runner, opts)
}
