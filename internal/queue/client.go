package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/constants"
	"github.com/vitrine-api/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	defaultConcurrency      = 10
	catalogRefreshUniqueTTL = 30 * time.Second
)

// Client 队列客户端，未启用队列时所有投递均为空操作
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{queue: DefaultQueue}, nil
	}
	return &Client{
		client: asynq.NewClient(RedisOpt(cfg)),
		queue:  DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueCatalogRefresh 推送商品目录缓存刷新任务
// 30 秒内重复投递会被合并。
func (c *Client) EnqueueCatalogRefresh(payload CatalogRefreshPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCatalogRefreshTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, append([]asynq.Option{asynq.Unique(catalogRefreshUniqueTTL)}, opts...)...)
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	info, err := c.client.Enqueue(task, append([]asynq.Option{asynq.Queue(c.queue)}, opts...)...)
	switch {
	case errors.Is(err, asynq.ErrDuplicateTask):
		logger.Debugw("queue_task_deduplicated", "task_type", task.Type())
		return nil
	case err != nil:
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debugw("queue_task_enqueued", "task_type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成 worker 端连接与运行参数
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return RedisOpt(cfg), asynq.Config{
		Concurrency:  concurrency,
		Queues:       queues,
		Logger:       logger.Component("asynq"),
		ErrorHandler: asynq.ErrorHandlerFunc(logTaskFailure),
	}
}

// RedisOpt 队列 Redis 连接参数，缺省连接本机 6379
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.Warnw("queue_task_failed",
		"task_type", task.Type(),
		"retry", retried,
		"max_retry", maxRetry,
		"error", err,
	)
}
