package repository

import "github.com/laundry-pos/internal/models"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page       int
	PageSize   int
	Status     string
	Keyword    string // 按订单编号或客户名模糊匹配
	CustomerID uint
	DriverID   uint
	DateFrom   *models.Date // order_date 起始（含）
	DateTo     *models.Date // order_date 截止（含）
}

// PaymentReportFilter 收款报表过滤条件
type PaymentReportFilter struct {
	Page     int
	PageSize int
	DateFrom *models.Date
	DateTo   *models.Date
}

// DateRange 按 order_date 闭区间过滤
type DateRange struct {
	From models.Date
	To   models.Date
}
