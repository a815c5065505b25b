package admin

import "github.com/laundry-pos/internal/provider"

// Handler 收银台接口处理器入口
// 说明：订单、收款与报表接口均面向门店员工。
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
