package public

import (
	"github.com/vitrine-api/internal/constants"
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// cartKey 当前请求的购物车标识，中间件未设置时退回配置默认值
func (h *Handler) cartKey(c *gin.Context) string {
	if key, ok := handlershared.CartKey(c); ok {
		return key
	}
	if h.Container != nil && h.Config != nil && h.Config.Cart.DefaultKey != "" {
		return h.Config.Cart.DefaultKey
	}
	return constants.DefaultCartKey
}
