package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHTTPRoutes 注册健康检查路由。
// /healthz、/readyz 由 httpserver 提供轻量探针，这里补充带组件明细的报告接口。
func RegisterHTTPRoutes(r *gin.Engine, aggregator *Aggregator) {
	// 详细报告：数据库/redis/同步队列/套餐镜像逐项状态
	r.GET("/health", func(c *gin.Context) {
		report := aggregator.BuildReport(c.Request.Context())

		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		// Degraded 仍返回 200：积压与过期镜像不摘流量
		c.JSON(code, report)
	})

	// Readiness 探针（带组件检查的版本，区别于 httpserver 的就绪标志位）
	r.GET("/health/ready", func(c *gin.Context) {
		if !aggregator.Ready(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	// Liveness 探针
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": aggregator.Alive()})
	})
}
