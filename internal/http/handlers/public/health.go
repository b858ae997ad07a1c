package public

import (
	"net/http"
	"time"

	"github.com/vitrine-api/internal/cache"
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	componentOK          = "ok"
	componentDisabled    = "disabled"
	componentUnavailable = "unavailable"
)

// Home 根路径欢迎信息
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": msgWelcome})
}

// HealthCheck 健康检查
// 数据库不可用时返回 503，缓存仅作为附加信息。
func (h *Handler) HealthCheck(c *gin.Context) {
	now := time.Now()
	status := http.StatusOK
	database := componentOK
	if err := models.Ping(h.DB); err != nil {
		status = http.StatusServiceUnavailable
		database = componentUnavailable
		handlershared.RequestLog(c).Warnw("healthcheck_database_unavailable", "error", err)
	}

	cacheState := componentDisabled
	if cache.Enabled() {
		cacheState = componentOK
		if err := cache.Ping(c.Request.Context()); err != nil {
			cacheState = componentUnavailable
			handlershared.RequestLog(c).Warnw("healthcheck_cache_unavailable", "error", err)
		}
	}

	c.JSON(status, gin.H{
		"message":   msgServerRunning,
		"uptime":    now.Sub(h.StartedAt).Seconds(),
		"timestamp": now.UnixMilli(),
		"database":  database,
		"cache":     cacheState,
	})
}

// NotFound 未匹配路由
func (h *Handler) NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, msgRouteNotFound, nil)
}
