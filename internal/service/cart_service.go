package service

import (
	"time"

	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/models"
	"github.com/vitrine-api/internal/repository"

	"gorm.io/gorm"
)

// CartItemResult 加购/删除后的购物车行
type CartItemResult struct {
	ID        uint   `json:"id"`
	CartID    string `json:"cartId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Removed   bool   `json:"removed,omitempty"`
}

// CartProductSummary 购物车行内嵌的商品摘要
type CartProductSummary struct {
	ID                      uint          `json:"id"`
	Name                    string        `json:"name"`
	Description             string        `json:"description"`
	ImageURL                string        `json:"imageUrl"`
	PriceInCents            models.Cents  `json:"priceInCents"`
	PromotionalPriceInCents *models.Cents `json:"promotionalPriceInCents"`
}

// CartLine 购物车行视图
type CartLine struct {
	ID               uint               `json:"id"`
	Quantity         int                `json:"quantity"`
	Product          CartProductSummary `json:"product"`
	UnitPriceInCents models.Cents       `json:"unitPriceInCents"`
	SubtotalInCents  models.Cents       `json:"subtotalInCents"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items        []CartLine   `json:"items"`
	TotalInCents models.Cents `json:"totalInCents"`
	TotalAmount  string       `json:"totalAmount"`
	ItemCount    int          `json:"itemCount"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// AddToCart 按增量调整购物车行
// 正增量原子累加（不存在则新建），负增量结果不为正时删除该行。
func (s *CartService) AddToCart(cartKey string, input AddToCartInput) (*CartItemResult, error) {
	key, err := NormalizeCartKey(cartKey)
	if err != nil {
		return nil, err
	}
	if err := input.Validate().Err(); err != nil {
		return nil, err
	}
	productID := uint(*input.ProductID)
	delta := *input.Quantity

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	now := s.now()
	var result *CartItemResult
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.EnsureByKey(key, now)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartCreateFailed
		}

		if delta > 0 {
			item, err := cartRepo.IncrementItem(cart.ID, productID, delta)
			if err != nil {
				return err
			}
			if item == nil {
				return ErrQuantityLimitExceeded
			}
			result = newCartItemResult(item, false)
		} else {
			result, err = s.decrement(cartRepo, cart.ID, productID, delta)
			if err != nil {
				return err
			}
		}
		return cartRepo.Touch(cart.ID, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("cart_item_changed",
		"cart_key", key,
		"cart_id", result.CartID,
		"product_id", productID,
		"delta", delta,
		"quantity", result.Quantity,
		"removed", result.Removed,
	)
	return result, nil
}

func (s *CartService) decrement(cartRepo repository.CartRepository, cartID string, productID uint, delta int) (*CartItemResult, error) {
	existing, err := cartRepo.GetItemByProductForUpdate(cartID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNegativeQuantityForNewItem
	}

	affected, err := cartRepo.ApplyDelta(existing.ID, delta)
	if err != nil {
		return nil, err
	}
	if affected > 0 {
		updated, err := cartRepo.GetItem(cartID, existing.ID)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, ErrCartItemNotFound
		}
		return newCartItemResult(updated, false), nil
	}

	if _, err := cartRepo.DeleteItem(existing.ID); err != nil {
		return nil, err
	}
	return newCartItemResult(existing, true), nil
}

// GetCart 获取购物车汇总，购物车不存在时返回空汇总且不建行
func (s *CartService) GetCart(cartKey string) (*CartSummary, error) {
	key, err := NormalizeCartKey(cartKey)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return buildCartSummary(nil), nil
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	return buildCartSummary(items), nil
}

// RemoveCartItem 删除属于该购物车的行
func (s *CartService) RemoveCartItem(cartKey string, itemID uint) (*CartItemResult, error) {
	key, err := NormalizeCartKey(cartKey)
	if err != nil {
		return nil, err
	}
	if itemID == 0 {
		return nil, ErrCartItemNotFound
	}
	cart, err := s.cartRepo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartItemNotFound
	}

	now := s.now()
	var result *CartItemResult
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		item, err := cartRepo.DeleteCartItem(cart.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		result = newCartItemResult(item, true)
		return cartRepo.Touch(cart.ID, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("cart_item_removed",
		"cart_key", key,
		"cart_id", cart.ID,
		"item_id", itemID,
		"product_id", result.ProductID,
	)
	return result, nil
}

func newCartItemResult(item *models.CartItem, removed bool) *CartItemResult {
	return &CartItemResult{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Removed:   removed,
	}
}

func buildCartSummary(items []models.CartItem) *CartSummary {
	summary := &CartSummary{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		product := item.Product
		if product == nil {
			logger.Warnw("cart_item_product_missing", "item_id", item.ID, "product_id", item.ProductID)
			continue
		}
		unitPrice := product.EffectivePrice()
		subtotal := unitPrice.Mul(item.Quantity)
		summary.Items = append(summary.Items, CartLine{
			ID:       item.ID,
			Quantity: item.Quantity,
			Product: CartProductSummary{
				ID:                      product.ID,
				Name:                    product.Name,
				Description:             product.Description,
				ImageURL:                product.ImageURL,
				PriceInCents:            product.PriceInCents,
				PromotionalPriceInCents: product.PromotionalPriceInCents,
			},
			UnitPriceInCents: unitPrice,
			SubtotalInCents:  subtotal,
		})
		summary.TotalInCents += subtotal
	}
	summary.ItemCount = len(summary.Items)
	summary.TotalAmount = summary.TotalInCents.String()
	return summary
}
