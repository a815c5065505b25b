package repository

import (
	"github.com/laundry-pos/internal/models"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// applyDateRange 追加 DATE 列闭区间条件
func applyDateRange(query *gorm.DB, column string, from, to *models.Date) *gorm.DB {
	if from != nil && !from.IsZero() {
		query = query.Where(column+" >= ?", from.String())
	}
	if to != nil && !to.IsZero() {
		query = query.Where(column+" <= ?", to.String())
	}
	return query
}

// applyTimestampRange 追加时间戳列的日期区间条件，截止日包含全天
func applyTimestampRange(query *gorm.DB, column string, from, to *models.Date) *gorm.DB {
	if from != nil && !from.IsZero() {
		query = query.Where(column+" >= ?", from.Time)
	}
	if to != nil && !to.IsZero() {
		query = query.Where(column+" < ?", to.AddDate(0, 0, 1))
	}
	return query
}
