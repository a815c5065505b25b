package repository

import (
	"context"
	"strings"

	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogListFilter 权限审计日志查询条件
type AuthzAuditLogListFilter struct {
	Page     int
	PageSize int
	Operator string
	Action   string
	Role     string
	DateFrom *models.Date
	DateTo   *models.Date
}

// AuthzAuditLogRepository 权限审计日志数据访问接口
type AuthzAuditLogRepository interface {
	Create(log *models.AuthzAuditLog) error
	List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error)
	WithContext(ctx context.Context) *GormAuthzAuditLogRepository
}

// GormAuthzAuditLogRepository GORM 实现
type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

// NewAuthzAuditLogRepository 创建权限审计日志仓库
func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormAuthzAuditLogRepository) WithContext(ctx context.Context) *GormAuthzAuditLogRepository {
	if ctx == nil {
		return r
	}
	return &GormAuthzAuditLogRepository{db: r.db.WithContext(ctx)}
}

// Create 创建权限审计日志
func (r *GormAuthzAuditLogRepository) Create(log *models.AuthzAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 查询权限审计日志，最新在前
func (r *GormAuthzAuditLogRepository) List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	query := r.db.Model(&models.AuthzAuditLog{})
	if operator := strings.TrimSpace(filter.Operator); operator != "" {
		query = query.Where("operator = ?", operator)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("role = ?", role)
	}
	query = applyTimestampRange(query, "created_at", filter.DateFrom, filter.DateTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]models.AuthzAuditLog, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
