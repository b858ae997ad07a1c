package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	msgRateLimited            = "Too many requests, retry in %ds"
	msgRateLimiterUnavailable = "Rate limiter unavailable"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	Message       string // 含一个 %d 占位符（等待秒数）
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return r.Prefix + ":" + raw
}

func (r RateLimitRule) message(waitSeconds int) string {
	format := strings.TrimSpace(r.Message)
	if format == "" {
		format = msgRateLimited
	}
	return fmt.Sprintf(format, waitSeconds)
}

// 返回 {当前计数, 剩余秒数}
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// fixedWindow 单次计数，返回是否放行以及需要等待的秒数
func fixedWindow(ctx context.Context, client *redis.Client, rule RateLimitRule, key string) (bool, int, error) {
	values, err := rateLimitScript.Run(ctx, client, []string{key}, rule.WindowSeconds).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(values) < 2 {
		return false, 0, fmt.Errorf("unexpected rate limit result length %d", len(values))
	}
	if values[0] <= int64(rule.MaxRequests) {
		return true, 0, nil
	}
	wait := int(values[1])
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	return false, wait, nil
}

// RateLimitMiddleware Redis 固定窗口频率限制中间件，client 为空时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}

		allowed, wait, err := fixedWindow(c.Request.Context(), client, rule, rule.key(raw))
		if err != nil {
			handlershared.RespondErrorWithMsg(c, response.CodeUnavailable, msgRateLimiterUnavailable, err)
			return
		}
		if !allowed {
			handlershared.RequestLog(c).Infow("rate_limited", "key", rule.key(raw), "retry_after", wait)
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Error(c, response.CodeTooManyRequests, rule.message(wait))
			return
		}
		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndCartKey 使用 IP + 购物车标识作为限流 key
func KeyByIPAndCartKey(c *gin.Context) string {
	key, ok := handlershared.CartKey(c)
	if !ok {
		return c.ClientIP()
	}
	return key + "|" + c.ClientIP()
}
