package worker

import (
	"context"
	"errors"

	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 订单事件消费服务。
// 生命周期跟随 Runner 的 context，不使用 asynq 自带的信号处理。
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	queues map[string]int
}

// NewService 创建事件消费服务，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
		queues: serverCfg.Queues,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费并阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_consuming", "task", queue.TaskOrderEvent, "queues", s.queues)
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的事件写入完成；超过 ctx 截止时间则直接返回
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warnw("worker_shutdown_timeout", "error", ctx.Err())
		return ctx.Err()
	}
}
