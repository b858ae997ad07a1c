package worker

import (
	"context"
	"fmt"

	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/provider"
	"github.com/vitrine-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCatalogRefresh, c.handleCatalogRefresh)
}

func (c *Consumer) handleCatalogRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_catalog_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCatalogRefreshPayload(task)
	if err != nil {
		logger.Warnw("worker_catalog_refresh_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.Container == nil || c.ProductService == nil {
		logger.Warnw("worker_catalog_refresh_skip_product_service_nil", "reason", payload.Reason)
		return nil
	}
	count, err := c.ProductService.RefreshCache(ctx)
	if err != nil {
		logger.Warnw("worker_catalog_refresh_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Infow("worker_catalog_refresh_done", "reason", payload.Reason, "products", count)
	return nil
}
