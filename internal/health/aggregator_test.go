package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticChecker struct {
	name   string
	status Status
}

func (c staticChecker) Name() string { return c.name }
func (c staticChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{Status: c.status}
}

// TestOverallStatus 总体状态取最差组件
func TestOverallStatus(t *testing.T) {
	ctx := context.Background()

	agg := NewAggregator(staticChecker{"db", StatusHealthy})
	assert.Equal(t, StatusHealthy, agg.OverallStatus(ctx))
	assert.True(t, agg.Ready(ctx))

	agg.AddChecker(staticChecker{"redis", StatusDegraded})
	assert.Equal(t, StatusDegraded, agg.OverallStatus(ctx))
	// Degraded仍然就绪
	assert.True(t, agg.Ready(ctx))

	agg.AddChecker(staticChecker{"catalog", StatusUnhealthy})
	assert.Equal(t, StatusUnhealthy, agg.OverallStatus(ctx))
	assert.False(t, agg.Ready(ctx))
}

// TestCheckAllCollectsResults 并发执行全部检查器
func TestCheckAllCollectsResults(t *testing.T) {
	agg := NewAggregator(
		staticChecker{"db", StatusHealthy},
		staticChecker{"redis", StatusDegraded},
	)

	results := agg.CheckAll(context.Background())
	assert.Len(t, results, 2)
	assert.Equal(t, StatusHealthy, results["db"].Status)
	assert.Equal(t, StatusDegraded, results["redis"].Status)
}

// TestReadiness 各子系统均就绪才算就绪
func TestReadiness(t *testing.T) {
	r := New()
	assert.False(t, r.Ready())

	r.SetDBReady(true)
	assert.False(t, r.Ready())

	r.SetWorkerReady(true)
	assert.True(t, r.Ready())

	r.SetDBReady(false)
	assert.False(t, r.Ready())
}
