package service

import (
	"context"
	"strings"
	"time"

	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/queue"
	"github.com/laundry-pos/internal/repository"

	"github.com/google/uuid"
)

// OrderEventPublisher 订单变更事件发布接口
type OrderEventPublisher interface {
	Publish(ctx context.Context, event queue.OrderEventPayload)
}

// OrderEventService 订单审计事件服务
type OrderEventService struct {
	eventRepo   repository.OrderEventRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewOrderEventService 创建订单事件服务
func NewOrderEventService(eventRepo repository.OrderEventRepository, orderRepo repository.OrderRepository, queueClient *queue.Client) *OrderEventService {
	return &OrderEventService{
		eventRepo:   eventRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// Publish 事务提交后调用；队列可用时异步落库，否则同步写入。失败只记录日志，不影响主流程。
func (s *OrderEventService) Publish(ctx context.Context, event queue.OrderEventPayload) {
	if s == nil {
		return
	}
	if strings.TrimSpace(event.EventID) == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderEvent(ctx, event); err != nil {
			logger.Warnw("order_event_enqueue_failed",
				"order_id", event.OrderID,
				"event_type", event.EventType,
				"error", err,
			)
		} else {
			return
		}
	}
	if _, err := s.Record(context.WithoutCancel(ctx), event); err != nil {
		logger.Warnw("order_event_record_failed",
			"order_id", event.OrderID,
			"event_type", event.EventType,
			"error", err,
		)
	}
}

// Record 写入审计记录，event_id 重复时返回 false
func (s *OrderEventService) Record(ctx context.Context, event queue.OrderEventPayload) (bool, error) {
	if s == nil || s.eventRepo == nil {
		return false, nil
	}
	row := &models.OrderEvent{
		EventID:    event.EventID,
		OrderID:    event.OrderID,
		OrderCode:  event.OrderCode,
		EventType:  event.EventType,
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		Actor:      event.Actor,
		OccurredAt: event.OccurredAt,
	}
	if strings.TrimSpace(event.Amount) != "" {
		amount, err := models.ParseMoney(event.Amount)
		if err != nil {
			logger.Warnw("order_event_amount_invalid", "event_id", event.EventID, "amount", event.Amount)
		} else {
			row.Amount = &amount
		}
	}
	if len(event.Extra) > 0 {
		row.Payload = models.JSON(event.Extra)
	}
	created, err := s.eventRepo.WithContext(ctx).Record(row)
	if err != nil {
		return false, wrapStore("record order event", err)
	}
	return created, nil
}

// ListByOrder 分页查询订单事件。
// 订单不存在且没有任何事件时返回 ErrOrderNotFound；已硬删除的订单仍可查看其轨迹。
func (s *OrderEventService) ListByOrder(ctx context.Context, orderID uint, page, pageSize int) ([]models.OrderEvent, int64, error) {
	if orderID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	events, total, err := s.eventRepo.WithContext(ctx).ListByOrder(orderID, page, pageSize)
	if err != nil {
		return nil, 0, wrapStore("list order events", err)
	}
	if total == 0 && s.orderRepo != nil {
		order, err := s.orderRepo.WithContext(ctx).GetByID(orderID)
		if err != nil {
			return nil, 0, wrapStore("get order", err)
		}
		if order == nil {
			return nil, 0, ErrOrderNotFound
		}
	}
	return events, total, nil
}
