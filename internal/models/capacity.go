package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Capacity 车辆载重/容量（保留 2 位小数，与货物数量同单位比较）
type Capacity struct {
	decimal.Decimal
}

// NewCapacityFromDecimal 从 decimal 创建容量
func NewCapacityFromDecimal(amount decimal.Decimal) Capacity {
	return Capacity{Decimal: amount.Round(2)}
}

// NewCapacityFromFloat 从浮点数创建容量
func NewCapacityFromFloat(amount float64) Capacity {
	return NewCapacityFromDecimal(decimal.NewFromFloat(amount))
}

// IsPositive 容量是否大于 0
func (c Capacity) IsPositive() bool {
	return c.Decimal.GreaterThan(decimal.Zero)
}

// MarshalJSON 输出数值（最多 2 位小数）
func (c Capacity) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal.Round(2).String()), nil
}

// UnmarshalJSON 解析容量（字符串或数字）
func (c *Capacity) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		c.Decimal = d.Round(2)
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	c.Decimal = d.Round(2)
	return nil
}

// Value 用于数据库写入
func (c Capacity) Value() (driver.Value, error) {
	return c.Decimal.Round(2).Value()
}

// Scan 用于数据库读取
func (c *Capacity) Scan(value interface{}) error {
	if err := c.Decimal.Scan(value); err != nil {
		return err
	}
	c.Decimal = c.Decimal.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (c Capacity) String() string {
	return c.Decimal.Round(2).StringFixed(2)
}
