package service

import (
	"context"
	"strconv"

	"github.com/vitrine-api/internal/cache"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/models"
	"github.com/vitrine-api/internal/repository"

	"golang.org/x/sync/singleflight"
)

// ProductService 商品目录服务
type ProductService struct {
	productRepo repository.ProductRepository
	loads       singleflight.Group
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListAll 按插入顺序返回全部商品，优先读缓存
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	cached, hit, err := cache.GetCatalogProducts(ctx)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", "list", "error", err)
	}
	if hit {
		return cached, nil
	}

	val, err, _ := s.loads.Do("list", func() (interface{}, error) {
		products, err := s.productRepo.List()
		if err != nil {
			return nil, err
		}
		// 共享加载结果，缓存写入不随首个调用方取消
		if err := cache.SetCatalogProducts(context.WithoutCancel(ctx), products); err != nil {
			logger.Warnw("catalog_cache_write_failed", "key", "list", "error", err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]models.Product), nil
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	cached, hit, err := cache.GetCatalogProduct(ctx, id)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "product_id", id, "error", err)
	}
	if hit {
		return cached, nil
	}

	val, err, _ := s.loads.Do("product:"+strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		product, err := s.productRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if err := cache.SetCatalogProduct(context.WithoutCancel(ctx), product); err != nil {
			logger.Warnw("catalog_cache_write_failed", "product_id", id, "error", err)
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := *val.(*models.Product)
	return &product, nil
}

// RefreshCache 清空并重建商品目录缓存，返回缓存的商品数
func (s *ProductService) RefreshCache(ctx context.Context) (int, error) {
	if err := cache.InvalidateCatalog(ctx); err != nil {
		return 0, err
	}
	if !cache.Enabled() {
		return 0, nil
	}
	products, err := s.productRepo.List()
	if err != nil {
		return 0, err
	}
	if err := cache.SetCatalogProducts(ctx, products); err != nil {
		return 0, err
	}
	for i := range products {
		if err := cache.SetCatalogProduct(ctx, &products[i]); err != nil {
			return 0, err
		}
	}
	logger.Infow("catalog_cache_refreshed", "products", len(products))
	return len(products), nil
}
