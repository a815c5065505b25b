package service

import (
	"context"
	"strings"
	"time"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/queue"

	"gorm.io/gorm"
)

// AddPaymentInput 追加收款输入
type AddPaymentInput struct {
	OrderID       uint          `json:"orderId" validate:"required"`
	Amount        *models.Money `json:"amount" validate:"required"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStage  string        `json:"paymentStage"`
	Note          string        `json:"note"`
	CreatedBy     string        `json:"createdBy"`
}

// AddPaymentResult 追加收款结果
type AddPaymentResult struct {
	OrderID          uint         `json:"orderId"`
	PaidNow          models.Money `json:"paidNow"`
	TotalPaid        models.Money `json:"totalPaid"`
	RemainingBalance models.Money `json:"remainingBalance"`
	OrderStatus      string       `json:"orderStatus"`
	Settled          bool         `json:"settled"`
}

func (in *AddPaymentInput) normalize() {
	in.Amount = presentMoney(in.Amount)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.PaymentStage = strings.ToLower(strings.TrimSpace(in.PaymentStage))
	if in.PaymentStage == "" {
		in.PaymentStage = constants.PaymentStagePartial
	}
	in.Note = strings.TrimSpace(in.Note)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
}

func (in *AddPaymentInput) validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.Amount.IsPositive() {
		return newValidationError("amount")
	}
	if !isValidPaymentStage(in.PaymentStage) {
		return newValidationError("paymentStage")
	}
	return nil
}

// AddPayment 对订单追加一笔收款。
// 订单行加锁后再汇总已收金额，余额校验与写入在同一锁范围内，并发收款不会超收。
func (s *OrderService) AddPayment(ctx context.Context, input AddPaymentInput) (*AddPaymentResult, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	amount := models.NewMoneyFromDecimal(input.Amount.Decimal)

	var (
		result     AddPaymentResult
		orderCode  string
		fromStatus string
	)
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderNotPayable
		}

		paidSoFar, err := paymentRepo.SumSuccessful(order.ID)
		if err != nil {
			return err
		}
		balance := order.GrossTotal.Sub(paidSoFar)
		if amount.GreaterThan(balance.Decimal) {
			return &OverpaymentError{Balance: balance}
		}

		payment := &models.Payment{
			OrderID:       order.ID,
			Amount:        amount,
			PaymentMethod: input.PaymentMethod,
			PaymentStage:  input.PaymentStage,
			PaymentStatus: constants.PaymentStatusSuccess,
			Note:          input.Note,
			CreatedBy:     input.CreatedBy,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		remaining := balance.Sub(amount)
		result = AddPaymentResult{
			OrderID:          order.ID,
			PaidNow:          amount,
			TotalPaid:        paidSoFar.Add(amount),
			RemainingBalance: remaining,
			OrderStatus:      order.Status,
		}
		orderCode = order.OrderCode
		fromStatus = order.Status

		if remaining.IsZero() {
			result.Settled = true
			if order.Status != constants.OrderStatusSettled {
				if _, err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
					"order_status": constants.OrderStatusSettled,
					"updated_at":   time.Now(),
				}); err != nil {
					return err
				}
				result.OrderStatus = constants.OrderStatusSettled
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStore("add payment", err)
	}

	logger.Infow("order_payment_added",
		"order_id", result.OrderID,
		"order_code", orderCode,
		"amount", amount.String(),
		"remaining", result.RemainingBalance.String(),
	)
	s.publish(ctx, queue.OrderEventPayload{
		OrderID:   result.OrderID,
		OrderCode: orderCode,
		EventType: constants.OrderEventPaymentReceived,
		Amount:    amount.String(),
		Actor:     input.CreatedBy,
		Extra: map[string]interface{}{
			"payment_stage":     input.PaymentStage,
			"payment_method":    input.PaymentMethod,
			"remaining_balance": result.RemainingBalance.String(),
		},
	})
	if result.Settled && fromStatus != result.OrderStatus {
		s.publish(ctx, queue.OrderEventPayload{
			OrderID:    result.OrderID,
			OrderCode:  orderCode,
			EventType:  constants.OrderEventSettled,
			FromStatus: fromStatus,
			ToStatus:   result.OrderStatus,
			Actor:      input.CreatedBy,
		})
	}
	return &result, nil
}
