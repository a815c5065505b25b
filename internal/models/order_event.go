package models

import "time"

// OrderEvent 订单变更审计记录，由异步任务写入
type OrderEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EventID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"event_id"` // 幂等键，任务重试时去重
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	OrderCode  string    `gorm:"type:varchar(30);index" json:"order_code"`
	EventType  string    `gorm:"type:varchar(40);index;not null" json:"event_type"`
	FromStatus string    `gorm:"type:varchar(30)" json:"from_status,omitempty"`
	ToStatus   string    `gorm:"type:varchar(30)" json:"to_status,omitempty"`
	Amount     *Money    `gorm:"type:decimal(12,2)" json:"amount,omitempty"`
	Actor      string    `gorm:"type:varchar(100)" json:"actor,omitempty"`
	Payload    JSON      `gorm:"type:json" json:"payload,omitempty"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (OrderEvent) TableName() string {
	return "order_events"
}
