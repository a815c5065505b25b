package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/laundry-pos/internal/logger"
)

// JSON 通用 JSON 对象
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	raw, ok := rawJSON(value)
	if !ok {
		*j = JSON{}
		return nil
	}
	return json.Unmarshal(raw, j)
}

// LineItem 洗涤明细行
type LineItem struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"` // 服务类别，如 wash / dry_clean / iron
	Quantity int    `json:"quantity"`
	Price    *Money `json:"price,omitempty"`
}

// ItemList 有序洗涤明细
type ItemList []LineItem

// Value 实现 driver.Valuer 接口
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan 宽松解析：无法解析的存量数据视为空列表
func (l *ItemList) Scan(value interface{}) error {
	var items ItemList
	if !scanLenient(value, &items, "item_list") {
		items = ItemList{}
	}
	*l = items
	return nil
}

// Addon 附加费用
type Addon struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// AddonList 有序附加费用
type AddonList []Addon

// Value 实现 driver.Valuer 接口
func (l AddonList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan 宽松解析：无法解析的存量数据视为空列表
func (l *AddonList) Scan(value interface{}) error {
	var addons AddonList
	if !scanLenient(value, &addons, "addon") {
		addons = AddonList{}
	}
	*l = addons
	return nil
}

func scanLenient(value interface{}, target interface{}, column string) bool {
	raw, ok := rawJSON(value)
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		logger.Warnw("order_payload_malformed", "column", column, "error", err)
		return false
	}
	return true
}

func rawJSON(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
