package shared

import (
	"strconv"
	"strings"

	"github.com/vitrine-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ContextKeyCartKey 请求上下文中的购物车标识
const ContextKeyCartKey = "cart_key"

// CartKey 读取中间件解析出的购物车标识
func CartKey(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyCartKey)
	if !exists {
		return "", false
	}
	key, ok := value.(string)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// ParseUintParam 解析路径中的正整数 ID，失败时直接写入 400 响应。
func ParseUintParam(c *gin.Context, name, requiredMsg, invalidMsg string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		RespondErrorWithMsg(c, response.CodeBadRequest, requiredMsg, nil)
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		RespondErrorWithMsg(c, response.CodeBadRequest, invalidMsg, nil)
		return 0, false
	}
	return uint(value), true
}
