package constants

// 订单状态常量
const (
	OrderStatusReceived        = "received"
	OrderStatusProcessing      = "processing"
	OrderStatusReadyToDeliver  = "ready_to_deliver"
	OrderStatusOutForDelivery  = "out_for_delivery"
	OrderStatusPartialDelivery = "partial_delivery"
	OrderStatusDelivered       = "delivered"
	OrderStatusReturned        = "returned"
	OrderStatusCancelled       = "cancelled"
)

// OrderStatusInitial 新建订单的初始状态
const OrderStatusInitial = OrderStatusReceived

// OrderStatusSettled 结清后订单进入的状态
const OrderStatusSettled = OrderStatusDelivered

// 收款状态常量
const (
	PaymentStatusSuccess = "success"
	PaymentStatusPending = "pending"
	PaymentStatusFailed  = "failed"
)

// 收款阶段常量
const (
	PaymentStageAdvance = "advance"
	PaymentStagePartial = "partial"
	PaymentStageFinal   = "final"
)

// 订单维度的收款汇总状态（展示用）
const (
	SettlementPending = "Pending"
	SettlementPartial = "Partial"
	SettlementPaid    = "Paid"
)

// 订单事件类型
const (
	OrderEventCreated         = "order_created"
	OrderEventPaymentReceived = "payment_received"
	OrderEventSettled         = "order_settled"
	OrderEventStatusChanged   = "status_changed"
	OrderEventCancelled       = "order_cancelled"
	OrderEventRestored        = "order_restored"
	OrderEventDriverChanged   = "driver_changed"
	OrderEventDeleted         = "order_deleted"
)

// 异步队列与任务类型
const (
	QueueDefault   = "default"
	QueueCritical  = "critical"
	TaskOrderEvent = "order:event"
)

// 内置角色
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleDriver  = "driver"
	RoleAuditor = "auditor"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyActor     = "actor"
	ContextKeyRoles     = "roles"
)
