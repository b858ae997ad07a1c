package models

import "github.com/shopspring/decimal"

// Cents 以分为单位的金额
type Cents int64

// NewCentsFromDecimal 从元金额换算为分（四舍五入）
func NewCentsFromDecimal(amount decimal.Decimal) Cents {
	return Cents(amount.Shift(2).Round(0).IntPart())
}

// Decimal 转换为元金额
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Mul 按数量计算小计
func (c Cents) Mul(quantity int) Cents {
	return c * Cents(quantity)
}

// String 返回 2 位小数格式
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// CentsPtr 返回金额指针
func CentsPtr(c Cents) *Cents {
	return &c
}
