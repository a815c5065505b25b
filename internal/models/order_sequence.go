package models

import "time"

// OrderSequence 订单编号计数器，每个前缀一行
type OrderSequence struct {
	Name      string    `gorm:"primaryKey;type:varchar(50)" json:"name"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (OrderSequence) TableName() string {
	return "order_sequences"
}
