package constants

// 异步任务类型常量
const (
	TaskCatalogRefresh = "catalog:refresh"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 购物车常量
const (
	DefaultCartKey      = "default"
	CartKeyMaxLen       = 64
	CartItemMaxQuantity = 9999 // 单行数量上限，同时约束单次增量
)

// 响应状态常量
const (
	ResponseStatusSuccess = "success"
)

// 商品目录缓存常量
const (
	CatalogCacheListKey       = "catalog:products"
	CatalogCacheProductPrefix = "catalog:product:"
	CatalogCacheDefaultTTL    = 300
)
