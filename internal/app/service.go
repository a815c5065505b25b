package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 服务接口
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 并发启动全部服务；任一服务退出或收到信号后按注册顺序停止。
// HTTP 排在 worker 之前注册，先停止接收请求，再停止事件消费。
type Runner struct {
	services []Service
}

type serviceExit struct {
	name string
	err  error
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动并监听服务。信号触发的退出返回 nil，服务自身出错时返回带服务名的错误。
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exitCh := make(chan serviceExit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			logw(log, "service_start", "service", svc.Name())
			exitCh <- serviceExit{name: svc.Name(), err: svc.Start(ctx)}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		if err := ctx.Err(); !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case exit := <-exitCh:
		logw(log, "service_exit", "service", exit.name, "error", exit.err)
		if exit.err != nil {
			runErr = fmt.Errorf("%s: %w", exit.name, exit.err)
		}
	}

	cancel()
	stopErr := r.stopAll(stopTimeout, log)
	if runErr != nil {
		return runErr
	}
	return stopErr
}

// stopAll 共用一个截止时间依次停止服务，汇总停止失败
func (r *Runner) stopAll(stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if stopTimeout <= 0 {
		stopTimeout = defaultRequestTimeout + shutdownGrace
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()

	var errs []error
	for _, svc := range r.services {
		started := time.Now()
		if err := svc.Stop(stopCtx); err != nil {
			logw(log, "service_stop_failed", "service", svc.Name(), "error", err)
			errs = append(errs, fmt.Errorf("stop %s: %w", svc.Name(), err))
			continue
		}
		logw(log, "service_stopped", "service", svc.Name(), "elapsed", time.Since(started).String())
	}
	return errors.Join(errs...)
}

func logw(log *zap.SugaredLogger, msg string, kv ...interface{}) {
	if log == nil {
		return
	}
	log.Infow(msg, kv...)
}
