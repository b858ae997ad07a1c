package main

import (
	"time"

	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/constants"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/models"
	"github.com/vitrine-api/internal/queue"

	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	products, err := models.ResetAndSeed(models.DB, time.Now())
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}
	for _, p := range products {
		logger.Infow("seed_product_created", "product_id", p.ID, "name", p.Name, "effective_price", p.EffectivePrice().String())
	}

	// 通知 worker 重建目录缓存，走高优先级队列
	client, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		stdLog.Fatalf("Failed to create queue client: %v", err)
	}
	defer client.Close()
	if err := client.EnqueueCatalogRefresh(queue.CatalogRefreshPayload{Reason: "seed"}, asynq.Queue(constants.QueueCritical)); err != nil {
		logger.Warnw("seed_catalog_refresh_enqueue_failed", "error", err)
	}

	logger.Infow("seed_completed", "products", len(products), "queue_enabled", client.Enabled())
}
