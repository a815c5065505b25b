package models

import (
	"time"
)

// Payment 订单收款记录
type Payment struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                    // 主键
	OrderID       uint      `gorm:"index;not null" json:"order_id"`                                          // 订单ID
	Amount        Money     `gorm:"type:decimal(12,2);not null" json:"amount"`                               // 收款金额
	PaymentMethod string    `gorm:"type:varchar(50)" json:"payment_method"`                                  // 收款方式（cash/card 等）
	PaymentStage  string    `gorm:"type:varchar(20);not null;default:'partial'" json:"payment_stage"`        // advance/partial/final
	PaymentStatus string    `gorm:"type:varchar(20);index;not null;default:'success'" json:"payment_status"` // success/pending/failed
	Note          string    `gorm:"type:varchar(255)" json:"note,omitempty"`                                 // 备注
	CreatedBy     string    `gorm:"type:varchar(100)" json:"created_by,omitempty"`                           // 收款人
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                                 // 创建时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
