package models

// CartItem 购物车行
// 行存在期间数量必须大于 0；商品引用不级联删除。
type CartItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CartID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product" json:"cartId"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_cart_items_cart_product;index" json:"productId"`
	Quantity  int    `gorm:"not null" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
