package models

import "time"

// Product 商品
// 价格均以最小货币单位（分）存储，促销价存在时应低于原价。
type Product struct {
	ID                      uint      `gorm:"primarykey" json:"id"`
	Name                    string    `gorm:"type:text;not null" json:"name"`
	Description             string    `gorm:"type:text;not null" json:"description"`
	ImageURL                string    `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	PriceInCents            Cents     `gorm:"column:price_in_cents;not null" json:"priceInCents"`
	PromotionalPriceInCents *Cents    `gorm:"column:promotional_price_in_cents" json:"promotionalPriceInCents"`
	CreatedAt               time.Time `gorm:"not null" json:"createdAt"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 实际单价：有促销价取促销价，否则取原价
func (p *Product) EffectivePrice() Cents {
	if p == nil {
		return 0
	}
	if p.PromotionalPriceInCents != nil {
		return *p.PromotionalPriceInCents
	}
	return p.PriceInCents
}
