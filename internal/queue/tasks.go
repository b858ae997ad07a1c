package queue

import (
	"encoding/json"

	"github.com/vitrine-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCatalogRefresh 商品目录缓存刷新任务
	TaskCatalogRefresh = constants.TaskCatalogRefresh
)

// CatalogRefreshPayload 商品目录刷新任务载荷
type CatalogRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewCatalogRefreshTask 创建商品目录刷新任务
func NewCatalogRefreshTask(payload CatalogRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogRefresh, body), nil
}

// ParseCatalogRefreshPayload 解析商品目录刷新任务载荷，空载荷视为合法
func ParseCatalogRefreshPayload(task *asynq.Task) (CatalogRefreshPayload, error) {
	var payload CatalogRefreshPayload
	if task == nil || len(task.Payload()) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
