// Package bootstrap 统一编排服务启动顺序。
package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/api"
	"github.com/simvista/sim-server/internal/api/middleware"
	"github.com/simvista/sim-server/internal/app"
	cfgpkg "github.com/simvista/sim-server/internal/config"
	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/storage/gormrepo"
	"github.com/simvista/sim-server/internal/switchflow"
	"github.com/simvista/sim-server/internal/syncsched"
)

// Run 统一启动流程：依赖逐级就绪后再对外提供服务
func Run(cfg *cfgpkg.Config, log *zap.Logger) error {
	log.Info("starting sim server",
		zap.String("server_id", app.InstanceID()),
		zap.String("env", cfg.App.Env))

	// ========== 阶段1: 基础组件 ==========
	reg, appm := app.NewMetrics()
	metricsHandler := metrics.Handler(reg)
	ready := app.NewReady()
	log.Info("basic components initialized")

	// ========== 阶段2: 数据库（阻塞等待，失败直接返回）==========
	dbpool, err := app.ConnectDBAndMigrate(context.Background(), cfg.Database, "db/migrations", log)
	if err != nil {
		log.Error("database initialization failed", zap.Error(err))
		return err
	}
	defer dbpool.Close()

	gdb, err := app.OpenGorm(cfg.Database)
	if err != nil {
		log.Error("gorm initialization failed", zap.Error(err))
		return err
	}
	ready.SetDBReady(true)
	log.Info("database ready", zap.String("dsn", maskDSN(cfg.Database.DSN)))

	repo := gormrepo.New(gdb)

	// ========== 阶段3: Redis（可选）==========
	redisClient, err := app.NewRedisClient(context.Background(), cfg.Redis, log)
	if err != nil {
		log.Error("redis initialization failed", zap.Error(err))
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	hotCache := app.NewHotPlanCache(redisClient, cfg.Redis)

	// ========== 阶段4: 业务组件 ==========
	gate, reader := app.NewTelephony(cfg.Telephony, appm, log)
	carriers := app.NewCarrierTable(cfg.Telephony.CarrierProfiles, log)
	planCache := app.NewPlanCatalog(cfg.Catalog, repo, hotCache, appm, log)
	scheduler := syncsched.NewScheduler(repo, log)
	switchSvc := switchflow.NewService(repo, scheduler, appm, log)
	switchFlow := switchflow.NewCoordinator(switchSvc, cfg.Sync.ConfirmTimeout, log)

	// ========== 阶段5: 后台循环 ==========
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	worker := syncsched.NewWorker(repo, carriers, app.NewConnectivity(cfg.Sync), appm, log)
	worker.Configure(cfg.Sync.Interval, cfg.Sync.BaseDelay, cfg.Sync.MaxRetries, cfg.Sync.BatchSize)
	go worker.Run(bgCtx)
	ready.SetWorkerReady(true)

	cleaner := syncsched.NewRetentionCleaner(repo, appm, log, cfg.Sync.EventRetention, cfg.Sync.CleanupInterval)
	go cleaner.Run(bgCtx)

	go planCache.RunPeriodicRefresh(bgCtx, cfg.Catalog.RefreshInterval)
	log.Info("background loops started")

	// ========== 阶段6: HTTP服务 ==========
	readyFn := func() bool { return ready.Ready() }
	httpSrv := app.NewHTTPServer(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn)

	healthAgg := app.NewHealthAggregator(dbpool, repo)
	app.AddRedisChecker(healthAgg, redisClient)
	app.AddPlanMirrorChecker(healthAgg, hotCache, cfg.Catalog.RefreshInterval)

	httpSrv.Register(func(r *gin.Engine) {
		api.RegisterRoutes(r, api.Deps{
			Repo:      repo,
			Gate:      gate,
			Reader:    reader,
			PlanCache: planCache,
			Switch:    switchSvc,
			Flow:      switchFlow,
			Auth: middleware.AuthConfig{
				APIKeys: cfg.API.Auth.APIKeys,
				Enabled: cfg.API.Auth.Enabled,
			},
			RateLimit: middleware.RateLimitConfig{
				Enabled:    cfg.API.RateLimit.Enabled,
				RatePerSec: float64(cfg.API.RateLimit.RatePerSec),
				Burst:      cfg.API.RateLimit.Burst,
			},
			Logger: log,
		})
		app.RegisterHealthRoutes(r, healthAgg)
	})

	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()
	log.Info("http server started", zap.String("addr", cfg.HTTP.Addr))

	// 启动后做一次机会式目录刷新，失败只记日志（离线启动是合法场景）
	go func() {
		ctx, cancel := context.WithTimeout(bgCtx, 30*time.Second)
		defer cancel()
		if _, err := planCache.Refresh(ctx); err != nil {
			log.Warn("initial catalog refresh failed", zap.Error(err))
		}
	}()

	log.Info("all services ready")

	// ========== 阶段7: 等待关闭信号 ==========
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("received shutdown signal, gracefully shutting down...")
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	log.Info("http server stopped")

	log.Info("shutdown complete")
	return nil
}

// maskDSN 脱敏数据库连接字符串（隐藏密码）
func maskDSN(dsn string) string {
	if idx := strings.Index(dsn, "@"); idx > 0 {
		if pwdIdx := strings.LastIndex(dsn[:idx], ":"); pwdIdx > 0 {
			return dsn[:pwdIdx+1] + "****" + dsn[idx:]
		}
	}
	return dsn
}
