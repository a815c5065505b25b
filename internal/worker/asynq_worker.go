package worker

import (
	"context"
	"strings"

	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/provider"
	"github.com/laundry-pos/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderEvent, c.handleOrderEvent)
}

// handleOrderEvent 审计事件落库；event_id 已存在时视为重复投递
func (c *Consumer) handleOrderEvent(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderEventPayload(task)
	if err != nil {
		logger.Warnw("worker_order_event_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return asynq.SkipRetry
	}
	if payload.OrderID == 0 || strings.TrimSpace(payload.EventID) == "" || strings.TrimSpace(payload.EventType) == "" {
		logger.Debugw("worker_order_event_skip_invalid_payload",
			"order_id", payload.OrderID,
			"event_id", payload.EventID,
			"event_type", payload.EventType,
		)
		return nil
	}
	if c.OrderEventService == nil {
		logger.Warnw("worker_order_event_skip_service_nil", "event_id", payload.EventID)
		return nil
	}
	created, err := c.OrderEventService.Record(ctx, payload)
	if err != nil {
		logger.Warnw("worker_order_event_record_failed",
			"order_id", payload.OrderID,
			"event_id", payload.EventID,
			"event_type", payload.EventType,
			"error", err,
		)
		return err
	}
	if !created {
		logger.Debugw("worker_order_event_duplicate", "event_id", payload.EventID)
	}
	return nil
}
