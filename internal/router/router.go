package router

import (
	"fmt"
	"strings"

	"github.com/vitrine-api/internal/cache"
	"github.com/vitrine-api/internal/config"
	publichandlers "github.com/vitrine-api/internal/http/handlers/public"
	"github.com/vitrine-api/internal/logger"
	"github.com/vitrine-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vitrine"
	}
	cartAddRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart_add", redisPrefix),
		WindowSeconds: cfg.Cart.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Cart.RateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/", publicHandler.Home)
	r.GET(healthCheckPath, publicHandler.HealthCheck)

	api := r.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", publicHandler.ListProducts)
			products.GET("/:id", publicHandler.GetProduct)
		}

		cart := api.Group("/cart")
		cart.Use(CartKeyMiddleware(cfg.Cart.DefaultKey))
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/add", RateLimitMiddleware(cache.Client(), cartAddRule, KeyByIPAndCartKey), publicHandler.AddToCart)
			cart.DELETE("/:id", publicHandler.RemoveCartItem)
		}
	}

	r.NoRoute(publicHandler.NotFound)

	return r
}
