package repository

import (
	"context"
	"time"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 报表聚合查询接口
// 说明：只读投影，不承载业务规则。
type ReportRepository interface {
	ListSuccessfulPayments(filter PaymentReportFilter) ([]PaymentReportRow, int64, error)
	GetDailySummary(r DateRange) (DailySummaryRow, error)
	WithContext(ctx context.Context) *GormReportRepository
}

// PaymentReportRow 收款报表原始行
type PaymentReportRow struct {
	PaymentID     uint
	PaidAt        time.Time
	OrderID       uint
	OrderCode     string
	CustomerName  string
	DriverName    string
	Amount        models.Money
	PaymentMethod string
	PaymentStage  string
	Note          string
}

// DailySummaryRow 区间汇总原始结果
type DailySummaryRow struct {
	Orders          int64
	DeliveredOrders int64
	CancelledOrders int64
	TotalSales      models.Money
	TotalPaid       models.Money
}

// GormReportRepository GORM 实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormReportRepository) WithContext(ctx context.Context) *GormReportRepository {
	if ctx == nil {
		return r
	}
	return &GormReportRepository{db: r.db.WithContext(ctx)}
}

// ListSuccessfulPayments 分页查询成功收款并关联订单信息
func (r *GormReportRepository) ListSuccessfulPayments(filter PaymentReportFilter) ([]PaymentReportRow, int64, error) {
	query := r.db.Table("payments AS p").
		Joins("INNER JOIN orders AS o ON o.id = p.order_id").
		Where("p.payment_status = ?", constants.PaymentStatusSuccess)
	query = applyTimestampRange(query, "p.created_at", filter.DateFrom, filter.DateTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []PaymentReportRow
	err := applyPagination(query, filter.Page, filter.PageSize).
		Select(`p.id AS payment_id, p.created_at AS paid_at, o.id AS order_id, o.order_code,
			o.customer_name, o.driver_name, p.amount, p.payment_method, p.payment_stage,
			COALESCE(NULLIF(p.note, ''), o.remark, '') AS note`).
		Order("p.created_at desc").Order("p.id desc").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetDailySummary 统计 order_date 区间内的订单与收款汇总，已取消订单只计入取消数
func (r *GormReportRepository) GetDailySummary(dr DateRange) (DailySummaryRow, error) {
	var row DailySummaryRow

	orders := applyDateRange(r.db.Model(&models.Order{}), "order_date", &dr.From, &dr.To)
	var counts struct {
		Orders          int64
		DeliveredOrders int64
		CancelledOrders int64
		TotalSales      models.Money
	}
	err := orders.Select(`
		COUNT(CASE WHEN order_status <> ? THEN 1 END) AS orders,
		COUNT(CASE WHEN order_status = ? THEN 1 END) AS delivered_orders,
		COUNT(CASE WHEN order_status = ? THEN 1 END) AS cancelled_orders,
		COALESCE(SUM(CASE WHEN order_status <> ? THEN gross_total ELSE 0 END), 0) AS total_sales`,
		constants.OrderStatusCancelled,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
		constants.OrderStatusCancelled,
	).Scan(&counts).Error
	if err != nil {
		return row, err
	}

	paid := r.db.Table("payments AS p").
		Joins("INNER JOIN orders AS o ON o.id = p.order_id").
		Where("p.payment_status = ? AND o.order_status <> ?", constants.PaymentStatusSuccess, constants.OrderStatusCancelled)
	paid = applyDateRange(paid, "o.order_date", &dr.From, &dr.To)
	var paidRow struct {
		Total models.Money
	}
	if err := paid.Select("COALESCE(SUM(p.amount), 0) AS total").Scan(&paidRow).Error; err != nil {
		return row, err
	}

	row.Orders = counts.Orders
	row.DeliveredOrders = counts.DeliveredOrders
	row.CancelledOrders = counts.CancelledOrders
	row.TotalSales = counts.TotalSales
	row.TotalPaid = paidRow.Total
	return row, nil
}
