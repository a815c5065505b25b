package service

import (
	"context"
	"strings"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/repository"
)

// OrderView 订单及其收款汇总
type OrderView struct {
	models.Order
	PaidAmount    models.Money `json:"paid_amount"`
	PendingAmount models.Money `json:"pending_amount"`
	PaymentStatus string       `json:"payment_status"`
}

// OrderDetail 订单详情，附完整收款记录（最新在前）
type OrderDetail struct {
	OrderView
	Payments []models.Payment `json:"payments"`
}

// ListOrdersInput 订单列表查询条件
type ListOrdersInput struct {
	Page       int
	PageSize   int
	Status     string
	Keyword    string
	CustomerID uint
	DriverID   uint
	DateFrom   *models.Date
	DateTo     *models.Date
}

// SettlementStatus 根据已收金额推导收款状态
func SettlementStatus(gross, paid models.Money) string {
	switch {
	case !paid.IsPositive():
		return constants.SettlementPending
	case paid.LessThan(gross.Decimal):
		return constants.SettlementPartial
	default:
		return constants.SettlementPaid
	}
}

func newOrderView(order models.Order, paid models.Money) OrderView {
	if order.ItemList == nil {
		order.ItemList = models.ItemList{}
	}
	if order.Addon == nil {
		order.Addon = models.AddonList{}
	}
	return OrderView{
		Order:         order,
		PaidAmount:    paid,
		PendingAmount: order.GrossTotal.Sub(paid),
		PaymentStatus: SettlementStatus(order.GrossTotal, paid),
	}
}

// ListOrders 分页查询订单，按 id 倒序并附带收款汇总
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) ([]OrderView, int64, error) {
	filter := repository.OrderListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		Keyword:    strings.TrimSpace(input.Keyword),
		CustomerID: input.CustomerID,
		DriverID:   input.DriverID,
		DateFrom:   input.DateFrom,
		DateTo:     input.DateTo,
	}
	if strings.TrimSpace(input.Status) != "" {
		filter.Status = NormalizeOrderStatus(input.Status)
	}

	orders, total, err := s.orderRepo.WithContext(ctx).List(filter)
	if err != nil {
		return nil, 0, wrapStore("list orders", err)
	}
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	paidByOrder, err := s.paymentRepo.WithContext(ctx).SumSuccessfulByOrderIDs(ids)
	if err != nil {
		return nil, 0, wrapStore("sum order payments", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		paid, ok := paidByOrder[order.ID]
		if !ok {
			paid = models.ZeroMoney()
		}
		views = append(views, newOrderView(order, paid))
	}
	return views, total, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*OrderDetail, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.WithContext(ctx).GetByID(orderID)
	if err != nil {
		return nil, wrapStore("get order", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	paymentRepo := s.paymentRepo.WithContext(ctx)
	payments, err := paymentRepo.ListByOrder(order.ID)
	if err != nil {
		return nil, wrapStore("list order payments", err)
	}
	paid := models.ZeroMoney()
	for _, p := range payments {
		if p.PaymentStatus == constants.PaymentStatusSuccess {
			paid = paid.Add(p.Amount)
		}
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return &OrderDetail{
		OrderView: newOrderView(*order, paid),
		Payments:  payments,
	}, nil
}
