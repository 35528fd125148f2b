package health

import (
	"context"
	"sync"
	"time"
)

// Aggregator 汇总各组件检查器，给探针与 /health 报告提供统一视图
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator 创建聚合器
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// AddChecker 追加检查器（redis、镜像等可选组件就绪后再挂上来）
func (a *Aggregator) AddChecker(checker Checker) {
	a.mu.Lock()
	a.checkers = append(a.checkers, checker)
	a.mu.Unlock()
}

type namedResult struct {
	name   string
	result CheckResult
}

// CheckAll 并发执行全部检查器，返回按组件名索引的结果
func (a *Aggregator) CheckAll(ctx context.Context) map[string]CheckResult {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	ch := make(chan namedResult, len(checkers))
	for _, checker := range checkers {
		go func(c Checker) {
			ch <- namedResult{name: c.Name(), result: c.Check(ctx)}
		}(checker)
	}

	results := make(map[string]CheckResult, len(checkers))
	for range checkers {
		r := <-ch
		results[r.name] = r.result
	}
	return results
}

// OverallStatus 总体状态取所有组件中最差的一个
func (a *Aggregator) OverallStatus(ctx context.Context) Status {
	overall := StatusHealthy
	for _, result := range a.CheckAll(ctx) {
		overall = Worse(overall, result.Status)
	}
	return overall
}

// Ready 就绪判定：Degraded（同步积压、镜像过期）不影响对外服务，
// 只有 Unhealthy 才摘流量。
func (a *Aggregator) Ready(ctx context.Context) bool {
	return a.OverallStatus(ctx) != StatusUnhealthy
}

// Alive 存活判定：进程能响应即存活
func (a *Aggregator) Alive() bool {
	return true
}

// Report 健康报告（/health 接口返回体）
type Report struct {
	Status     Status                 `json:"status"`
	CheckedAt  time.Time              `json:"checked_at"`
	Components map[string]CheckResult `json:"components"`
}

// BuildReport 一次检查同时产出总体状态与各组件明细
func (a *Aggregator) BuildReport(ctx context.Context) Report {
	results := a.CheckAll(ctx)
	overall := StatusHealthy
	for _, result := range results {
		overall = Worse(overall, result.Status)
	}
	return Report{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: results,
	}
}
