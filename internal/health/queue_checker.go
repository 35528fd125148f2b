package health

import (
	"context"
	"fmt"
	"time"
)

// QueueDepth 同步队列深度来源（由存储层实现）
type QueueDepth interface {
	CountPendingSyncJobs(ctx context.Context) (int64, error)
}

// SyncQueueChecker 余额同步队列检查器。
// 队列长期积压意味着设备处于离线或上游持续失败，按降级上报，
// 运维据此判断是否需要介入，而不是直接摘流量。
type SyncQueueChecker struct {
	depth     QueueDepth
	warnDepth int64
}

// NewSyncQueueChecker 创建队列检查器（warnDepth<=0 时默认 100）
func NewSyncQueueChecker(depth QueueDepth, warnDepth int64) *SyncQueueChecker {
	if warnDepth <= 0 {
		warnDepth = 100
	}
	return &SyncQueueChecker{depth: depth, warnDepth: warnDepth}
}

func (c *SyncQueueChecker) Name() string { return "sync_queue" }

// Check 统计 pending 任务数，超过阈值按降级处理
func (c *SyncQueueChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	pending, err := c.depth.CountPendingSyncJobs(ctx)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("count pending jobs: %v", err),
			Latency: time.Since(start),
		}
	}

	status := StatusHealthy
	message := "ok"
	if pending >= c.warnDepth {
		status = StatusDegraded
		message = fmt.Sprintf("sync backlog: %d pending jobs", pending)
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"pending":    pending,
			"warn_depth": c.warnDepth,
		},
		Latency: time.Since(start),
	}
}
