package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// slowPingThreshold 事件写入路径对落库延迟敏感，ping 超过该值按降级处理
const slowPingThreshold = 250 * time.Millisecond

// DatabaseChecker 数据库检查器。
// 切换事件与同步队列都落在这个库上，库不可用时整个写路径瘫痪。
type DatabaseChecker struct {
	pool *pgxpool.Pool
}

// NewDatabaseChecker 创建数据库检查器
func NewDatabaseChecker(pool *pgxpool.Pool) *DatabaseChecker {
	return &DatabaseChecker{pool: pool}
}

func (c *DatabaseChecker) Name() string { return "database" }

// Check ping + 连接池水位
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if err := c.pool.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("ping: %v", err),
			Latency: time.Since(start),
		}
	}
	pingCost := time.Since(start)

	stat := c.pool.Stat()
	status := StatusHealthy
	message := "ok"

	if pingCost > slowPingThreshold {
		status = StatusDegraded
		message = fmt.Sprintf("slow ping: %s", pingCost)
	}
	if stat.MaxConns() > 0 && stat.AcquiredConns() >= stat.MaxConns() {
		status = Worse(status, StatusDegraded)
		message = "connection pool saturated"
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"acquired":       stat.AcquiredConns(),
			"idle":           stat.IdleConns(),
			"max":            stat.MaxConns(),
			"empty_acquires": stat.EmptyAcquireCount(),
		},
		Latency: pingCost,
	}
}
