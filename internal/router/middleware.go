package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vitrine-api/internal/config"
	"github.com/vitrine-api/internal/constants"
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/http/response"
	"github.com/vitrine-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey       = "request_id"
	requestIDHeader    = "X-Request-ID"
	cartKeyHeader      = "X-Cart-Key"
	maxRequestIDLength = 128
	healthCheckPath    = "/healthcheck"
)

// corsPolicy 预先拼接好的跨域响应头
type corsPolicy struct {
	origins          []string
	methods          string
	headers          string
	expose           string
	maxAge           string
	allowCredentials bool
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	policy := corsPolicy{
		origins:          orDefault(cfg.AllowedOrigins, []string{"*"}),
		methods:          strings.Join(orDefault(cfg.AllowedMethods, []string{"GET", "POST", "DELETE", "OPTIONS"}), ", "),
		headers:          strings.Join(orDefault(cfg.AllowedHeaders, []string{"Content-Type", "Accept-Encoding", "Cache-Control", "X-Requested-With", requestIDHeader, cartKeyHeader}), ", "),
		expose:           strings.Join(orDefault(cfg.ExposedHeaders, []string{requestIDHeader, cartKeyHeader}), ", "),
		allowCredentials: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		policy.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return policy
}

func (p corsPolicy) apply(h http.Header, origin string) {
	if allowed := resolveAllowedOrigin(origin, p.origins, p.allowCredentials); allowed != "" {
		h.Set("Access-Control-Allow-Origin", allowed)
		if allowed != "*" {
			h.Add("Vary", "Origin")
		}
	}
	if p.allowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Set("Access-Control-Allow-Headers", p.headers)
	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Expose-Headers", p.expose)
	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}
}

// CORSMiddleware 跨域中间件，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		policy.apply(c.Writer.Header(), c.GetHeader("Origin"))
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，客户端传入的 ID 不合法时重新生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// LoggerMiddleware 结构化请求日志中间件，按响应状态选择日志级别
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if key, ok := handlershared.CartKey(c); ok {
			log = log.With("cart_key", key)
		}
		switch {
		case len(c.Errors) > 0 || status >= http.StatusInternalServerError:
			log.Errorw("request", "errors", c.Errors.String())
		case status >= http.StatusBadRequest:
			log.Warnw("request")
		case c.Request.URL.Path == healthCheckPath:
			log.Debugw("request")
		default:
			log.Infow("request")
		}
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// CartKeyMiddleware 解析购物车标识
// 请求未携带 X-Cart-Key 时使用 defaultKey，解析结果回写到响应头。
func CartKeyMiddleware(defaultKey string) gin.HandlerFunc {
	defaultKey = strings.TrimSpace(defaultKey)
	if defaultKey == "" {
		defaultKey = constants.DefaultCartKey
	}
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(cartKeyHeader))
		if raw == "" {
			raw = defaultKey
		}
		key, err := service.NormalizeCartKey(raw)
		if err != nil {
			response.BadRequest(c, "Invalid cart key")
			return
		}
		c.Set(handlershared.ContextKeyCartKey, key)
		c.Writer.Header().Set(cartKeyHeader, key)
		c.Next()
	}
}
