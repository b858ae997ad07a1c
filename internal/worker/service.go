package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vitrine-api/internal/cache"
	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	minCatalogWarmInterval = 30 * time.Second
)

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	warmInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:         "worker",
		server:       server,
		mux:          mux,
		consumer:     consumer,
		warmInterval: catalogWarmInterval(consumer),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.ProductService != nil && cache.Enabled() {
		go s.runCatalogWarmLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCatalogWarmLoop 在缓存过期前周期性重建商品目录缓存
func (s *Service) runCatalogWarmLoop(ctx context.Context) {
	runOnce := func() {
		if _, err := s.consumer.ProductService.RefreshCache(ctx); err != nil {
			logger.Warnw("worker_catalog_warm_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.warmInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// catalogWarmInterval 取缓存有效期的一半
func catalogWarmInterval(consumer *Consumer) time.Duration {
	interval := minCatalogWarmInterval
	if consumer != nil && consumer.Container != nil && consumer.Config != nil {
		half := time.Duration(consumer.Config.Catalog.CacheTTLSeconds) * time.Second / 2
		if half > interval {
			interval = half
		}
	}
	return interval
}
