package provider

import (
	"time"

	"github.com/vitrine-api/internal/cache"
	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/models"
	"github.com/vitrine-api/internal/queue"
	"github.com/vitrine-api/internal/repository"
	"github.com/vitrine-api/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	StartedAt   time.Time

	// Repositories
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository

	// Services
	ProductService *service.ProductService
	CartService    *service.CartService
}

// NewContainer 初始化容器，db 为 nil 时使用全局连接
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	if db == nil {
		db = models.DB
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	cache.SetCatalogTTL(time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second)

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
		StartedAt:   time.Now(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.ProductRepo = repository.NewProductRepository(c.DB)
	c.CartRepo = repository.NewCartRepository(c.DB)
}

func (c *Container) initServices() {
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
}
