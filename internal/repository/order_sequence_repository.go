package repository

import (
	"errors"

	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderSequenceRepository 订单编号计数器数据访问接口
type OrderSequenceRepository interface {
	Get(name string) (*models.OrderSequence, error)
	InsertIfAbsent(name string, start int64) error
	GetForUpdate(name string) (*models.OrderSequence, error)
	UpdateValue(name string, value int64) error
	WithTx(tx *gorm.DB) *GormOrderSequenceRepository
}

// GormOrderSequenceRepository GORM 实现
type GormOrderSequenceRepository struct {
	db *gorm.DB
}

// NewOrderSequenceRepository 创建计数器仓库
func NewOrderSequenceRepository(db *gorm.DB) *GormOrderSequenceRepository {
	return &GormOrderSequenceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderSequenceRepository) WithTx(tx *gorm.DB) *GormOrderSequenceRepository {
	if tx == nil {
		return r
	}
	return &GormOrderSequenceRepository{db: tx}
}

// Get 读取计数器，不存在返回 nil
func (r *GormOrderSequenceRepository) Get(name string) (*models.OrderSequence, error) {
	var seq models.OrderSequence
	if err := r.db.Where("name = ?", name).Take(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seq, nil
}

// InsertIfAbsent 初始化计数器，已存在时忽略
func (r *GormOrderSequenceRepository) InsertIfAbsent(name string, start int64) error {
	seq := models.OrderSequence{Name: name, LastValue: start}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&seq).Error
}

// GetForUpdate 加行锁读取计数器，需在事务内调用
func (r *GormOrderSequenceRepository) GetForUpdate(name string) (*models.OrderSequence, error) {
	var seq models.OrderSequence
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		Take(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seq, nil
}

// UpdateValue 写回计数器
func (r *GormOrderSequenceRepository) UpdateValue(name string, value int64) error {
	return r.db.Model(&models.OrderSequence{}).
		Where("name = ?", name).
		Update("last_value", value).Error
}
