package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDForUpdate(id uint) (*models.Order, error)
	GetLatest() (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListItemsByDateRange(r DateRange) ([]models.Order, error)
	UpdateFields(id uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormOrderRepository
	WithContext(ctx context.Context) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormOrderRepository) WithContext(ctx context.Context) *GormOrderRepository {
	if ctx == nil {
		return r
	}
	return &GormOrderRepository{db: r.db.WithContext(ctx)}
}

// Transaction 在请求上下文内开启事务，上下文取消时回滚
func (r *GormOrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := r.db
	if ctx != nil {
		db = db.WithContext(ctx)
	}
	return db.Transaction(fn)
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Omit(clause.Associations).Create(order).Error
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate 加行锁读取订单，需在事务内调用
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetLatest 获取 id 最大的订单
func (r *GormOrderRepository) GetLatest() (*models.Order, error) {
	var order models.Order
	if err := r.db.Select("id", "order_code").Order("id desc").Limit(1).Take(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 分页查询订单，按 id 倒序
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("order_status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"order_code", "customer_name"})
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", argCount)...)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DriverID != 0 {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	query = applyDateRange(query, "order_date", filter.DateFrom, filter.DateTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListItemsByDateRange 读取区间内未取消订单的洗涤明细
func (r *GormOrderRepository) ListItemsByDateRange(dr DateRange) ([]models.Order, error) {
	query := r.db.Model(&models.Order{}).
		Select("id", "order_code", "item_list").
		Where("order_status <> ?", constants.OrderStatusCancelled)
	query = applyDateRange(query, "order_date", &dr.From, &dr.To)

	var orders []models.Order
	if err := query.Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateFields 更新订单字段，返回受影响行数
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 物理删除订单，收款记录由外键级联删除
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}
