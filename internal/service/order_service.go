package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/queue"
	"github.com/laundry-pos/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单账本服务：订单创建、收款、状态流转与查询
type OrderService struct {
	orderRepo     repository.OrderRepository
	paymentRepo   repository.PaymentRepository
	sequenceRepo  repository.OrderSequenceRepository
	events        OrderEventPublisher
	codeFormat    OrderCodeFormat
	createRetries int
}

// OrderServiceOptions 订单服务可选配置
type OrderServiceOptions struct {
	CodePrefix    string
	CodeWidth     int
	CreateRetries int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, sequenceRepo repository.OrderSequenceRepository, events OrderEventPublisher, opts OrderServiceOptions) *OrderService {
	retries := opts.CreateRetries
	if retries <= 0 {
		retries = 1
	}
	return &OrderService{
		orderRepo:     orderRepo,
		paymentRepo:   paymentRepo,
		sequenceRepo:  sequenceRepo,
		events:        events,
		codeFormat:    OrderCodeFormat{Prefix: opts.CodePrefix, Width: opts.CodeWidth}.normalized(),
		createRetries: retries,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	OrderDate    *models.Date     `json:"orderDate" validate:"required"`
	DeliveryDate *models.Date     `json:"deliveryDate" validate:"required"`
	CustomerID   uint             `json:"customerId" validate:"required"`
	CustomerName string           `json:"customerName" validate:"required"`
	DriverID     uint             `json:"driverId" validate:"required"`
	DriverName   string           `json:"driverName" validate:"required"`
	SubTotal     *models.Money    `json:"subTotal"`
	GrossTotal   *models.Money    `json:"grossTotal" validate:"required"`
	Discount     *models.Money    `json:"discount"`
	Tax          *models.Money    `json:"tax"`
	Remark       string           `json:"remark"`
	ItemList     models.ItemList  `json:"itemList"`
	Addon        models.AddonList `json:"addon"`
	CreatedBy    string           `json:"createdBy" validate:"required"`

	// 可选的首笔收款
	PaidAmount    *models.Money `json:"paidAmount"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStage  string        `json:"paymentStage"`
}

// CreateOrderResult 创建订单结果
type CreateOrderResult struct {
	OrderID    uint         `json:"orderId"`
	OrderCode  string       `json:"orderCode"`
	GrossTotal models.Money `json:"grossTotal"`
	PaidAmount models.Money `json:"paidAmount"`
}

func (in *CreateOrderInput) normalize() {
	in.OrderDate = presentDate(in.OrderDate)
	in.DeliveryDate = presentDate(in.DeliveryDate)
	in.SubTotal = presentMoney(in.SubTotal)
	in.GrossTotal = presentMoney(in.GrossTotal)
	in.Discount = presentMoney(in.Discount)
	in.Tax = presentMoney(in.Tax)
	in.PaidAmount = presentMoney(in.PaidAmount)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.DriverName = strings.TrimSpace(in.DriverName)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	in.Remark = strings.TrimSpace(in.Remark)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.PaymentStage = strings.ToLower(strings.TrimSpace(in.PaymentStage))
	if in.PaymentStage == "" {
		in.PaymentStage = constants.PaymentStagePartial
	}
	if in.ItemList == nil {
		in.ItemList = models.ItemList{}
	}
	if in.Addon == nil {
		in.Addon = models.AddonList{}
	}
}

func (in *CreateOrderInput) validate() error {
	var invalid []string
	for name, amount := range map[string]*models.Money{
		"subTotal":   in.SubTotal,
		"grossTotal": in.GrossTotal,
		"discount":   in.Discount,
		"tax":        in.Tax,
		"paidAmount": in.PaidAmount,
	} {
		if amount != nil && amount.IsNegative() {
			invalid = append(invalid, name)
		}
	}
	if !isValidPaymentStage(in.PaymentStage) {
		invalid = append(invalid, "paymentStage")
	}
	var extra error
	if len(invalid) > 0 {
		sort.Strings(invalid)
		extra = newValidationError(invalid...)
	}
	return mergeValidation(validateStruct(in), extra)
}

// CreateOrder 创建订单，可附带首笔收款；编号生成、订单与收款写入在同一事务内完成
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	gross := models.NewMoneyFromDecimal(input.GrossTotal.Decimal)
	paid := models.ZeroMoney()
	if input.PaidAmount != nil {
		paid = models.NewMoneyFromDecimal(input.PaidAmount.Decimal)
	}
	if paid.GreaterThan(gross.Decimal) {
		return nil, &OverpaymentError{Balance: gross}
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 1; ; attempt++ {
		order, err = s.createOnce(ctx, input, gross, paid)
		if err == nil {
			break
		}
		if attempt >= s.createRetries || !isRetryableCreateError(err) || ctx.Err() != nil {
			break
		}
		logger.Warnw("order_create_retry", "attempt", attempt, "error", err)
	}
	if err != nil {
		if repository.IsUniqueViolation(err) {
			logger.Errorw("order_create_duplicate_code", "error", err)
			return nil, ErrDuplicateOrderCode
		}
		return nil, wrapStore("create order", err)
	}

	s.publish(ctx, queue.OrderEventPayload{
		OrderID:   order.ID,
		OrderCode: order.OrderCode,
		EventType: constants.OrderEventCreated,
		ToStatus:  order.Status,
		Amount:    gross.String(),
		Actor:     order.CreatedBy,
	})
	if paid.IsPositive() {
		s.publish(ctx, queue.OrderEventPayload{
			OrderID:   order.ID,
			OrderCode: order.OrderCode,
			EventType: constants.OrderEventPaymentReceived,
			Amount:    paid.String(),
			Actor:     order.CreatedBy,
			Extra:     map[string]interface{}{"payment_stage": input.PaymentStage},
		})
	}

	return &CreateOrderResult{
		OrderID:    order.ID,
		OrderCode:  order.OrderCode,
		GrossTotal: gross,
		PaidAmount: paid,
	}, nil
}

func (s *OrderService) createOnce(ctx context.Context, input CreateOrderInput, gross, paid models.Money) (*models.Order, error) {
	var created *models.Order
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		seq, err := nextOrderSequence(orderRepo, s.sequenceRepo.WithTx(tx), s.codeFormat.Prefix)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderCode:    s.codeFormat.Format(seq),
			OrderDate:    *input.OrderDate,
			DeliveryDate: *input.DeliveryDate,
			CustomerID:   input.CustomerID,
			CustomerName: input.CustomerName,
			DriverID:     input.DriverID,
			DriverName:   input.DriverName,
			SubTotal:     moneyOrZero(input.SubTotal),
			Discount:     moneyOrZero(input.Discount),
			Tax:          moneyOrZero(input.Tax),
			GrossTotal:   gross,
			ItemList:     input.ItemList,
			Addon:        input.Addon,
			Status:       constants.OrderStatusInitial,
			Remark:       input.Remark,
			CreatedBy:    input.CreatedBy,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		if paid.IsPositive() {
			payment := &models.Payment{
				OrderID:       order.ID,
				Amount:        paid,
				PaymentMethod: input.PaymentMethod,
				PaymentStage:  input.PaymentStage,
				PaymentStatus: constants.PaymentStatusSuccess,
				CreatedBy:     input.CreatedBy,
			}
			if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
				return err
			}
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OrderService) publish(ctx context.Context, event queue.OrderEventPayload) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}

func isRetryableCreateError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return repository.IsUniqueViolation(err) || repository.IsSerializationFailure(err)
}

func isValidPaymentStage(stage string) bool {
	switch stage {
	case constants.PaymentStageAdvance, constants.PaymentStagePartial, constants.PaymentStageFinal:
		return true
	default:
		return false
	}
}

// presentDate 空日期按未提供处理，交给 required 校验
func presentDate(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

// presentMoney 空串金额按未提供处理
func presentMoney(m *models.Money) *models.Money {
	if m.IsBlank() {
		return nil
	}
	return m
}

func moneyOrZero(m *models.Money) models.Money {
	if m == nil {
		return models.ZeroMoney()
	}
	return models.NewMoneyFromDecimal(m.Decimal)
}
