package models

import "time"

// AuthzAuditLog 权限策略审计日志
// 说明：记录角色策略的授予与撤销，操作人取自身份令牌。
type AuthzAuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Operator   string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator"`
	Action     string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Role       string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`
	Object     string    `gorm:"type:varchar(255);index;not null;default:''" json:"object"`
	Method     string    `gorm:"type:varchar(20);index;not null;default:''" json:"method"`
	RequestID  string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON JSON      `gorm:"type:json" json:"detail"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
