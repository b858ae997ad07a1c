package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vitrine-api/internal/constants"
	"github.com/vitrine-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByKey(cartKey string) (*models.Cart, error)
	EnsureByKey(cartKey string, now time.Time) (*models.Cart, error)
	Touch(cartID string, now time.Time) error
	ListItems(cartID string) ([]models.CartItem, error)
	GetItem(cartID string, itemID uint) (*models.CartItem, error)
	GetItemByProductForUpdate(cartID string, productID uint) (*models.CartItem, error)
	IncrementItem(cartID string, productID uint, delta int) (*models.CartItem, error)
	ApplyDelta(itemID uint, delta int) (int64, error)
	DeleteItem(itemID uint) (int64, error)
	DeleteCartItem(cartID string, itemID uint) (*models.CartItem, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByKey 按身份标识获取购物车，不存在时返回 nil
func (r *GormCartRepository) GetByKey(cartKey string) (*models.Cart, error) {
	cartKey = strings.TrimSpace(cartKey)
	if cartKey == "" {
		return nil, nil
	}
	var cart models.Cart
	if err := r.db.Where("cart_key = ?", cartKey).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// EnsureByKey 获取或创建购物车
// 依赖 cart_key 唯一索引：并发创建时只有一行落库，其余请求读到同一行。
func (r *GormCartRepository) EnsureByKey(cartKey string, now time.Time) (*models.Cart, error) {
	cartKey = strings.TrimSpace(cartKey)
	if cartKey == "" {
		return nil, nil
	}
	cart := &models.Cart{
		CartKey:   cartKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoNothing: true,
	}).Create(cart).Error; err != nil {
		return nil, err
	}
	return r.GetByKey(cartKey)
}

// Touch 刷新购物车更新时间
func (r *GormCartRepository) Touch(cartID string, now time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", now).Error
}

// ListItems 获取购物车全部行（含商品），按加入顺序排列
func (r *GormCartRepository) ListItems(cartID string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem 获取属于指定购物车的行，不存在时返回 nil
func (r *GormCartRepository) GetItem(cartID string, itemID uint) (*models.CartItem, error) {
	if itemID == 0 {
		return nil, nil
	}
	var item models.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemByProductForUpdate 加锁获取购物车中某商品的行
func (r *GormCartRepository) GetItemByProductForUpdate(cartID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := lockForUpdate(r.db).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// IncrementItem 原子地插入或累加购物车行，delta 必须为正
// 累加后超过 CartItemMaxQuantity 时不修改并返回 nil。
func (r *GormCartRepository) IncrementItem(cartID string, productID uint, delta int) (*models.CartItem, error) {
	if delta <= 0 {
		return nil, errors.New("increment delta must be positive")
	}
	if delta > constants.CartItemMaxQuantity {
		return nil, nil
	}
	item := &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  delta,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("cart_items.quantity + excluded.quantity <= ?", constants.CartItemMaxQuantity),
		}},
	}).Create(item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var stored models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ApplyDelta 在结果落在 (0, CartItemMaxQuantity] 内时调整数量，返回受影响行数
func (r *GormCartRepository) ApplyDelta(itemID uint, delta int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("id = ? AND quantity + ? > 0 AND quantity + ? <= ?", itemID, delta, delta, constants.CartItemMaxQuantity).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteItem 删除购物车行，返回受影响行数
func (r *GormCartRepository) DeleteItem(itemID uint) (int64, error) {
	result := r.db.Where("id = ?", itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteCartItem 删除属于指定购物车的行并返回被删除的数据，不存在时返回 nil
// 单条 DELETE ... RETURNING，事务内不先读后写。
func (r *GormCartRepository) DeleteCartItem(cartID string, itemID uint) (*models.CartItem, error) {
	if itemID == 0 {
		return nil, nil
	}
	var deleted []models.CartItem
	result := r.db.Clauses(clause.Returning{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(deleted) == 0 {
		return nil, nil
	}
	return &deleted[0], nil
}
