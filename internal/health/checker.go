package health

import (
	"context"
	"time"
)

// Status 组件健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"   // 健康
	StatusDegraded  Status = "degraded"  // 降级（同步积压、镜像过期等，仍可服务）
	StatusUnhealthy Status = "unhealthy" // 不健康（无法服务）
)

// rank 状态严重度，数值越大越差
func (s Status) rank() int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	default:
		return 0
	}
}

// Worse 返回两个状态中较差的一个
func Worse(a, b Status) Status {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// CheckResult 单个组件的检查结果
type CheckResult struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency"`
}

// Checker 组件健康检查器。
// 组件包括基础设施（数据库、redis）与业务子系统（同步队列、套餐镜像）。
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}
