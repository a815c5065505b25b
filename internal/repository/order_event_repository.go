package repository

import (
	"context"

	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderEventRepository 订单审计事件数据访问接口
type OrderEventRepository interface {
	Record(event *models.OrderEvent) (bool, error)
	ListByOrder(orderID uint, page, pageSize int) ([]models.OrderEvent, int64, error)
	WithContext(ctx context.Context) *GormOrderEventRepository
}

// GormOrderEventRepository GORM 实现
type GormOrderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository 创建事件仓库
func NewOrderEventRepository(db *gorm.DB) *GormOrderEventRepository {
	return &GormOrderEventRepository{db: db}
}

// WithContext 绑定上下文
func (r *GormOrderEventRepository) WithContext(ctx context.Context) *GormOrderEventRepository {
	if ctx == nil {
		return r
	}
	return &GormOrderEventRepository{db: r.db.WithContext(ctx)}
}

// Record 按 event_id 幂等写入，重复投递返回 false
func (r *GormOrderEventRepository) Record(event *models.OrderEvent) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByOrder 分页查询订单事件，按发生时间正序
func (r *GormOrderEventRepository) ListByOrder(orderID uint, page, pageSize int) ([]models.OrderEvent, int64, error) {
	query := r.db.Model(&models.OrderEvent{}).Where("order_id = ?", orderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.OrderEvent
	if err := applyPagination(query, page, pageSize).
		Order("occurred_at asc").Order("id asc").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
