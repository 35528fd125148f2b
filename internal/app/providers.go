package app

import (
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/carrier"
	"github.com/simvista/sim-server/internal/catalog"
	cfgpkg "github.com/simvista/sim-server/internal/config"
	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/permission"
	"github.com/simvista/sim-server/internal/storage"
	redisstorage "github.com/simvista/sim-server/internal/storage/redis"
	"github.com/simvista/sim-server/internal/syncsched"
	"github.com/simvista/sim-server/internal/telephony"
)

// NewTelephony 创建平台适配、权限判定与读取器。
// 未配置状态文件时 platform 为 nil，读取路径自然落到占位数据。
func NewTelephony(cfg cfgpkg.TelephonyConfig, appm *metrics.AppMetrics, log *zap.Logger) (*permission.Gate, *telephony.Reader) {
	var platform telephony.Platform
	var source permission.Source
	if cfg.StatePath != "" {
		fp := telephony.NewFilePlatform(cfg.StatePath)
		platform = fp
		source = fp
		log.Info("telephony state file configured", zap.String("path", cfg.StatePath))
	} else {
		log.Warn("telephony state file not configured, serving mock data")
	}
	gate := permission.NewGate(source, log)
	reader := telephony.NewReader(platform, appm, log)
	return gate, reader
}

// NewCarrierTable 加载运营商档案表，文件缺失或未配置时回退内置默认表
func NewCarrierTable(path string, log *zap.Logger) *carrier.Table {
	if path == "" {
		return carrier.DefaultTable()
	}
	table, err := carrier.LoadTable(path)
	if err != nil {
		log.Warn("load carrier profiles failed, using defaults",
			zap.String("path", path), zap.Error(err))
		return carrier.DefaultTable()
	}
	log.Info("carrier profiles loaded", zap.String("path", path))
	return table
}

// NewPlanCatalog 创建远端目录客户端与离线镜像
func NewPlanCatalog(cfg cfgpkg.CatalogConfig, repo storage.CoreRepo, hot *redisstorage.PlanCache, appm *metrics.AppMetrics, log *zap.Logger) *catalog.PlanCache {
	client := catalog.NewClient(cfg.BaseURL, cfg.Timeout)
	// 显式判空再装箱，避免把 nil 指针塞进非 nil 接口
	var mirror catalog.HotMirror
	if hot != nil {
		mirror = hot
	}
	return catalog.NewPlanCache(client, repo, mirror, cfg.Retention, appm, log)
}

// NewConnectivity 创建网络连通性检查器
func NewConnectivity(cfg cfgpkg.SyncConfig) syncsched.ConnectivityChecker {
	if cfg.ProbeAddr == "" {
		return syncsched.AlwaysOnline{}
	}
	return syncsched.NewProbeChecker(cfg.ProbeAddr, cfg.ProbeTimeout)
}
