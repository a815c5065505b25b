package models

import (
	"time"
)

// Order 洗衣订单表
type Order struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderCode    string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_code"` // 订单编号，如 TMS/ORD-001
	OrderDate    Date      `gorm:"type:date;not null" json:"order_date"`                    // 下单日期
	DeliveryDate Date      `gorm:"type:date;not null" json:"delivery_date"`                 // 交付日期
	CustomerID   uint      `gorm:"index;not null" json:"customer_id"`                       // 客户ID
	CustomerName string    `gorm:"type:varchar(150);not null" json:"customer_name"`         // 客户名称（冗余）
	DriverID     uint      `gorm:"index;not null" json:"driver_id"`                         // 司机ID
	DriverName   string    `gorm:"type:varchar(150);not null" json:"driver_name"`           // 司机名称（冗余）
	SubTotal     Money     `gorm:"type:decimal(12,2);not null;default:0" json:"sub_total"`  // 小计
	Discount     Money     `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`   // 折扣
	Tax          Money     `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`        // 税额
	GrossTotal   Money     `gorm:"type:decimal(12,2);not null" json:"gross_total"`          // 应收总额，创建后不再重算
	ItemList     ItemList  `gorm:"type:json;not null" json:"item_list"`                     // 洗涤明细
	Addon        AddonList `gorm:"type:json" json:"addon"`                                  // 附加费用
	Status       string    `gorm:"column:order_status;type:varchar(30);index;not null" json:"order_status"`
	// StatusBeforeCancel 取消前的状态，恢复时回到该状态
	StatusBeforeCancel string    `gorm:"type:varchar(30)" json:"-"`
	Remark             string    `gorm:"type:text" json:"remark"`                      // 备注
	CreatedBy          string    `gorm:"type:varchar(100);not null" json:"created_by"` // 创建人
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                   // 更新时间
	Payments           []Payment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
