package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart 购物车
// CartKey 是购物车身份标识，每个标识至多对应一行。
type Cart struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CartKey   string    `gorm:"column:cart_key;type:varchar(64);not null;uniqueIndex" json:"cartKey"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// BeforeCreate 生成 UUID 主键
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
