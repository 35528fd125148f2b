package health

import (
	"context"
	"fmt"
	"time"
)

// MirrorClock 套餐热镜像的刷新时间来源
type MirrorClock interface {
	RefreshedAt(ctx context.Context) (time.Time, error)
}

// PlanMirrorChecker 套餐镜像新鲜度检查器。
// 镜像长时间未成功刷新说明与远端目录失联，套餐读取仍可用（离线优先），
// 但数据在变陈旧，按降级上报。
type PlanMirrorChecker struct {
	mirror MirrorClock
	maxAge time.Duration
}

// NewPlanMirrorChecker 创建镜像检查器（maxAge<=0 时默认 1 小时）
func NewPlanMirrorChecker(mirror MirrorClock, maxAge time.Duration) *PlanMirrorChecker {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &PlanMirrorChecker{mirror: mirror, maxAge: maxAge}
}

func (c *PlanMirrorChecker) Name() string { return "plan_mirror" }

// Check 最近一次成功刷新距今是否超过允许窗口
func (c *PlanMirrorChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	refreshedAt, err := c.mirror.RefreshedAt(ctx)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("read refresh timestamp: %v", err),
			Latency: time.Since(start),
		}
	}

	if refreshedAt.IsZero() {
		// 启动后尚未成功刷新过（离线启动是合法场景）
		return CheckResult{
			Status:  StatusDegraded,
			Message: "mirror never refreshed",
			Latency: time.Since(start),
		}
	}

	age := time.Since(refreshedAt)
	status := StatusHealthy
	message := "ok"
	if age > c.maxAge {
		status = StatusDegraded
		message = fmt.Sprintf("mirror stale: last refresh %s ago", age.Round(time.Second))
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"refreshed_at": refreshedAt,
			"max_age":      c.maxAge.String(),
		},
		Latency: time.Since(start),
	}
}
