package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
type AppMetrics struct {
	DeviceReadTotal     *prometheus.CounterVec // labels: result=live|mock_denied|mock_error
	SwitchEventsTotal   prometheus.Counter     // 切换事件记录计数
	SyncJobTotal        *prometheus.CounterVec // labels: result=success|retry|failed
	CatalogRefreshTotal *prometheus.CounterVec // labels: result=ok|stale|error
	PlanMirrorSize      prometheus.Gauge       // 本地套餐镜像条目数
	EventsCleanedTotal  prometheus.Counter     // 保留窗口清理的事件数
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		DeviceReadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "device_read_total",
			Help: "SIM state read attempts by outcome.",
		}, []string{"result"}),
		SwitchEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "switch_events_total",
			Help: "Total SIM switch events recorded.",
		}),
		SyncJobTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_job_total",
			Help: "Balance sync job attempts by result.",
		}, []string{"result"}),
		CatalogRefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Plan catalog refresh attempts by result.",
		}, []string{"result"}),
		PlanMirrorSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_mirror_size",
			Help: "Current number of plans in the local mirror.",
		}),
		EventsCleanedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "switch_events_cleaned_total",
			Help: "Switch events deleted by retention cleanup.",
		}),
	}
	reg.MustRegister(m.DeviceReadTotal, m.SwitchEventsTotal, m.SyncJobTotal, m.CatalogRefreshTotal, m.PlanMirrorSize, m.EventsCleanedTotal)
	return m
}
