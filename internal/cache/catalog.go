package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/vitrine-api/internal/constants"
	"github.com/vitrine-api/internal/models"
)

var catalogTTL = time.Duration(constants.CatalogCacheDefaultTTL) * time.Second

// SetCatalogTTL 设置商品目录缓存有效期
func SetCatalogTTL(ttl time.Duration) {
	if ttl > 0 {
		catalogTTL = ttl
	}
}

func catalogProductKey(id uint) string {
	return constants.CatalogCacheProductPrefix + strconv.FormatUint(uint64(id), 10)
}

// GetCatalogProducts 读取商品列表缓存
func GetCatalogProducts(ctx context.Context) ([]models.Product, bool, error) {
	var products []models.Product
	hit, err := GetJSON(ctx, constants.CatalogCacheListKey, &products)
	if err != nil || !hit {
		return nil, false, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, true, nil
}

// SetCatalogProducts 写入商品列表缓存
func SetCatalogProducts(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return SetJSON(ctx, constants.CatalogCacheListKey, products, catalogTTL)
}

// GetCatalogProduct 读取单个商品缓存
func GetCatalogProduct(ctx context.Context, id uint) (*models.Product, bool, error) {
	var product models.Product
	hit, err := GetJSON(ctx, catalogProductKey(id), &product)
	if err != nil || !hit {
		return nil, false, err
	}
	return &product, true, nil
}

// SetCatalogProduct 写入单个商品缓存
func SetCatalogProduct(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return SetJSON(ctx, catalogProductKey(product.ID), product, catalogTTL)
}

// InvalidateCatalog 清除全部商品目录缓存
func InvalidateCatalog(ctx context.Context) error {
	if err := Del(ctx, constants.CatalogCacheListKey); err != nil {
		return err
	}
	_, err := DelByPrefix(ctx, constants.CatalogCacheProductPrefix)
	return err
}
