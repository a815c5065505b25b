package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/queue"

	"gorm.io/gorm"
)

// allowedTransitions 人工状态流转表；取消与恢复走专用接口，结清由收款触发
var allowedTransitions = map[string][]string{
	constants.OrderStatusReceived:        {constants.OrderStatusProcessing},
	constants.OrderStatusProcessing:      {constants.OrderStatusReadyToDeliver},
	constants.OrderStatusReadyToDeliver:  {constants.OrderStatusOutForDelivery},
	constants.OrderStatusOutForDelivery:  {constants.OrderStatusPartialDelivery, constants.OrderStatusDelivered, constants.OrderStatusReturned},
	constants.OrderStatusPartialDelivery: {constants.OrderStatusOutForDelivery, constants.OrderStatusDelivered, constants.OrderStatusReturned},
	constants.OrderStatusReturned:        {constants.OrderStatusProcessing, constants.OrderStatusOutForDelivery},
	constants.OrderStatusDelivered:       {},
}

// legacyStatusAliases 历史版本中出现过的状态名
var legacyStatusAliases = map[string]string{
	"pending":        constants.OrderStatusReceived,
	"order_received": constants.OrderStatusReceived,
	"ready":          constants.OrderStatusReadyToDeliver,
	"deleted":        constants.OrderStatusCancelled,
	"canceled":       constants.OrderStatusCancelled,
}

// NormalizeOrderStatus 统一状态写法：ReadyToDeliver / ready-to-deliver / Ready To Deliver 均映射为 ready_to_deliver
func NormalizeOrderStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	prevLower := false
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	status := strings.Trim(b.String(), "_")
	if alias, ok := legacyStatusAliases[status]; ok {
		return alias
	}
	return status
}

// IsSettableOrderStatus 判断状态是否在人工可设置的白名单内
func IsSettableOrderStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusChangeResult 状态变更结果
type StatusChangeResult struct {
	OrderID    uint   `json:"orderId"`
	OrderCode  string `json:"orderCode"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

// UpdateOrderStatus 校验白名单与流转表后更新状态；目标与当前相同时直接返回
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, rawStatus, actor string) (*StatusChangeResult, error) {
	if orderID == 0 {
		return nil, newValidationError("id")
	}
	target := NormalizeOrderStatus(rawStatus)
	if target == "" {
		return nil, newValidationError("status")
	}
	if !IsSettableOrderStatus(target) {
		return nil, ErrInvalidStatus
	}

	result, changed, err := s.changeStatus(ctx, orderID, func(order *models.Order) (map[string]interface{}, error) {
		if order.Status == target {
			return nil, nil
		}
		if order.Status == constants.OrderStatusCancelled || !canTransition(order.Status, target) {
			return nil, ErrInvalidStateTransition
		}
		return map[string]interface{}{"order_status": target}, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publishStatusChange(ctx, constants.OrderEventStatusChanged, result, actor)
	}
	return result, nil
}

// CancelOrder 软删除：记录取消前状态后置为 cancelled
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint, actor string) (*StatusChangeResult, error) {
	result, _, err := s.changeStatus(ctx, orderID, func(order *models.Order) (map[string]interface{}, error) {
		switch order.Status {
		case constants.OrderStatusCancelled:
			return nil, ErrAlreadyCancelled
		case constants.OrderStatusDelivered:
			return nil, ErrInvalidStateTransition
		}
		return map[string]interface{}{
			"order_status":         constants.OrderStatusCancelled,
			"status_before_cancel": order.Status,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, constants.OrderEventCancelled, result, actor)
	return result, nil
}

// RestoreOrder 撤销取消，回到取消前状态；无记录时回到初始状态
func (s *OrderService) RestoreOrder(ctx context.Context, orderID uint, actor string) (*StatusChangeResult, error) {
	result, _, err := s.changeStatus(ctx, orderID, func(order *models.Order) (map[string]interface{}, error) {
		if order.Status != constants.OrderStatusCancelled {
			return nil, ErrOrderNotCancelled
		}
		target := order.StatusBeforeCancel
		if !IsSettableOrderStatus(target) {
			target = constants.OrderStatusInitial
		}
		return map[string]interface{}{
			"order_status":         target,
			"status_before_cancel": "",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, constants.OrderEventRestored, result, actor)
	return result, nil
}

// changeStatus 锁定订单行后由 decide 决定更新内容，返回 nil 表示无需变更
func (s *OrderService) changeStatus(ctx context.Context, orderID uint, decide func(order *models.Order) (map[string]interface{}, error)) (*StatusChangeResult, bool, error) {
	if orderID == 0 {
		return nil, false, newValidationError("id")
	}
	var (
		result  StatusChangeResult
		changed bool
	)
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		updates, err := decide(order)
		if err != nil {
			return err
		}
		result = StatusChangeResult{
			OrderID:    order.ID,
			OrderCode:  order.OrderCode,
			FromStatus: order.Status,
			ToStatus:   order.Status,
		}
		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = time.Now()
		if _, err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		if next, ok := updates["order_status"].(string); ok {
			result.ToStatus = next
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, wrapStore("change order status", err)
	}
	return &result, changed, nil
}

func (s *OrderService) publishStatusChange(ctx context.Context, eventType string, result *StatusChangeResult, actor string) {
	s.publish(ctx, queue.OrderEventPayload{
		OrderID:    result.OrderID,
		OrderCode:  result.OrderCode,
		EventType:  eventType,
		FromStatus: result.FromStatus,
		ToStatus:   result.ToStatus,
		Actor:      strings.TrimSpace(actor),
	})
}

// UpdateDriverInput 改派司机输入
type UpdateDriverInput struct {
	DriverID   uint   `json:"driverId" validate:"required"`
	DriverName string `json:"driverName" validate:"required"`
	Actor      string `json:"-"`
}

// UpdateDriver 只修改司机字段，不影响订单状态
func (s *OrderService) UpdateDriver(ctx context.Context, orderID uint, input UpdateDriverInput) (*models.Order, error) {
	input.DriverName = strings.TrimSpace(input.DriverName)
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, newValidationError("id")
	}

	var (
		updated    *models.Order
		prevDriver string
	)
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		prevDriver = order.DriverName
		now := time.Now()
		if _, err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"driver_id":   input.DriverID,
			"driver_name": input.DriverName,
			"updated_at":  now,
		}); err != nil {
			return err
		}
		order.DriverID = input.DriverID
		order.DriverName = input.DriverName
		order.UpdatedAt = now
		updated = order
		return nil
	})
	if err != nil {
		return nil, wrapStore("update driver", err)
	}

	s.publish(ctx, queue.OrderEventPayload{
		OrderID:   updated.ID,
		OrderCode: updated.OrderCode,
		EventType: constants.OrderEventDriverChanged,
		Actor:     strings.TrimSpace(input.Actor),
		Extra: map[string]interface{}{
			"from_driver": prevDriver,
			"to_driver":   updated.DriverName,
			"driver_id":   updated.DriverID,
		},
	})
	return updated, nil
}

// HardDeleteOrder 物理删除订单，存在任何收款记录时拒绝
func (s *OrderService) HardDeleteOrder(ctx context.Context, orderID uint, actor string) error {
	if orderID == 0 {
		return newValidationError("id")
	}
	var orderCode string
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		count, err := s.paymentRepo.WithTx(tx).CountByOrder(order.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrHasPayments
		}
		orderCode = order.OrderCode
		return orderRepo.Delete(order.ID)
	})
	if err != nil {
		return wrapStore("hard delete order", err)
	}
	s.publish(ctx, queue.OrderEventPayload{
		OrderID:   orderID,
		OrderCode: orderCode,
		EventType: constants.OrderEventDeleted,
		Actor:     strings.TrimSpace(actor),
	})
	return nil
}
