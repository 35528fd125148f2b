package health

import (
	"context"
	"fmt"
	"time"

	redisstorage "github.com/simvista/sim-server/internal/storage/redis"
)

// RedisChecker 热缓存检查器。
// redis 只承担套餐热镜像，挂掉会退回 DB 镜像读取，所以不可达按降级而非不健康上报。
type RedisChecker struct {
	client *redisstorage.Client
}

// NewRedisChecker 创建热缓存检查器
func NewRedisChecker(client *redisstorage.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

// Check ping + 连接池命中统计
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("hot cache unreachable, serving from db mirror: %v", err),
			Latency: time.Since(start),
		}
	}

	stats := c.client.PoolStats()
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]any{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"timeouts":    stats.Timeouts,
		},
		Latency: time.Since(start),
	}
}
