package repository

import (
	"context"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 收款记录数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	SumSuccessful(orderID uint) (models.Money, error)
	SumSuccessfulByOrderIDs(orderIDs []uint) (map[uint]models.Money, error)
	ListByOrder(orderID uint) ([]models.Payment, error)
	CountByOrder(orderID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
	WithContext(ctx context.Context) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建收款仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormPaymentRepository) WithContext(ctx context.Context) *GormPaymentRepository {
	if ctx == nil {
		return r
	}
	return &GormPaymentRepository{db: r.db.WithContext(ctx)}
}

// Create 写入收款记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// SumSuccessful 汇总订单的成功收款金额
func (r *GormPaymentRepository) SumSuccessful(orderID uint) (models.Money, error) {
	var row struct {
		Total models.Money
	}
	err := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("order_id = ? AND payment_status = ?", orderID, constants.PaymentStatusSuccess).
		Scan(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return row.Total, nil
}

// SumSuccessfulByOrderIDs 按订单分组汇总成功收款金额，无收款的订单不出现在结果中
func (r *GormPaymentRepository) SumSuccessfulByOrderIDs(orderIDs []uint) (map[uint]models.Money, error) {
	result := make(map[uint]models.Money, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		OrderID uint
		Total   models.Money
	}
	err := r.db.Model(&models.Payment{}).
		Select("order_id, COALESCE(SUM(amount), 0) AS total").
		Where("order_id IN ? AND payment_status = ?", orderIDs, constants.PaymentStatusSuccess).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.OrderID] = row.Total
	}
	return result, nil
}

// ListByOrder 获取订单全部收款记录，最新在前
func (r *GormPaymentRepository) ListByOrder(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).
		Order("created_at desc").Order("id desc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountByOrder 统计订单的收款记录数（不区分状态）
func (r *GormPaymentRepository) CountByOrder(orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
