package admin

import (
	"strings"

	handlershared "github.com/laundry-pos/internal/http/handlers/shared"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 状态变更请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder 创建订单，可附带首笔收款
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = handlershared.ResolveActor(c, req.CreatedBy)

	result, err := h.OrderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to create order")
		return
	}
	requestLog(c).Infow("order_created", "order_id", result.OrderID, "order_code", result.OrderCode)
	response.Created(c, "order created", result)
}

// AddPayment 追加收款
func (h *Handler) AddPayment(c *gin.Context) {
	var req service.AddPaymentInput
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = handlershared.ResolveActor(c, req.CreatedBy)

	result, err := h.OrderService.AddPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, concatMappedHandlerErrors(orderCommonErrorRules, paymentErrorRules), "failed to add payment")
		return
	}
	response.SuccessWithMsg(c, "payment recorded", result)
}

// ListOrders 订单分页列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, limit := h.pagination(c)
	dateFrom, ok := parseDateQuery(c, "from", "startDate")
	if !ok {
		return
	}
	dateTo, ok := parseDateQuery(c, "to", "endDate")
	if !ok {
		return
	}
	customerID, ok := parseUintQuery(c, "customer_id")
	if !ok {
		return
	}
	driverID, ok := parseUintQuery(c, "driver_id")
	if !ok {
		return
	}

	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), service.ListOrdersInput{
		Page:       page,
		PageSize:   limit,
		Status:     strings.TrimSpace(c.Query("status")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		CustomerID: customerID,
		DriverID:   driverID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to fetch orders")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, limit, total))
}

// GetOrder 订单详情（含收款记录）
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to fetch order")
		return
	}
	response.Success(c, detail)
}

// UpdateOrderStatus 人工推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, handlershared.GetActor(c))
	if err != nil {
		respondServiceError(c, err, concatMappedHandlerErrors(orderCommonErrorRules, orderStatusErrorRules), "failed to update order status")
		return
	}
	response.SuccessWithMsg(c, "order status updated", result)
}

// CancelOrder 取消订单（软删除）
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	result, err := h.OrderService.CancelOrder(c.Request.Context(), orderID, handlershared.GetActor(c))
	if err != nil {
		respondServiceError(c, err, concatMappedHandlerErrors(orderCommonErrorRules, orderCancelErrorRules), "failed to cancel order")
		return
	}
	response.SuccessWithMsg(c, "order cancelled", result)
}

// RestoreOrder 恢复已取消订单
func (h *Handler) RestoreOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	result, err := h.OrderService.RestoreOrder(c.Request.Context(), orderID, handlershared.GetActor(c))
	if err != nil {
		respondServiceError(c, err, concatMappedHandlerErrors(orderCommonErrorRules, orderRestoreErrorRules), "failed to restore order")
		return
	}
	response.SuccessWithMsg(c, "order restored", result)
}

// UpdateDriver 改派司机
func (h *Handler) UpdateDriver(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req service.UpdateDriverInput
	if !bindJSON(c, &req) {
		return
	}
	req.Actor = handlershared.GetActor(c)

	order, err := h.OrderService.UpdateDriver(c.Request.Context(), orderID, req)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to update driver")
		return
	}
	response.SuccessWithMsg(c, "driver updated", order)
}

// DeleteOrder 物理删除无收款记录的订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	if err := h.OrderService.HardDeleteOrder(c.Request.Context(), orderID, handlershared.GetActor(c)); err != nil {
		respondServiceError(c, err, concatMappedHandlerErrors(orderCommonErrorRules, orderDeleteErrorRules), "failed to delete order")
		return
	}
	response.SuccessWithMsg(c, "order deleted", nil)
}

// ListOrderEvents 订单审计轨迹
func (h *Handler) ListOrderEvents(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	page, limit := h.pagination(c)
	events, total, err := h.OrderEventService.ListByOrder(c.Request.Context(), orderID, page, limit)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to fetch order events")
		return
	}
	response.SuccessWithPage(c, events, response.NewPagination(page, limit, total))
}
