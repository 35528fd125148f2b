package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled    bool
	RatePerSec float64
	Burst      int
}

// RateLimit 全局令牌桶限流中间件
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RatePerSec) * 2
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "请求过于频繁，请稍后重试",
			})
			return
		}
		c.Next()
	}
}
