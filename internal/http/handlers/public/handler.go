package public

import "github.com/vitrine-api/internal/provider"

// Handler 公开接口处理器入口
// 说明：商品目录、购物车与健康检查均无需登录。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
