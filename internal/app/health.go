package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simvista/sim-server/internal/health"
	"github.com/simvista/sim-server/internal/storage"
	redisstorage "github.com/simvista/sim-server/internal/storage/redis"
)

// NewHealthAggregator 创建健康检查聚合器：数据库 + 同步队列积压
func NewHealthAggregator(dbpool *pgxpool.Pool, repo storage.CoreRepo) *health.Aggregator {
	return health.NewAggregator(
		health.NewDatabaseChecker(dbpool),
		health.NewSyncQueueChecker(repo, 0),
	)
}

// AddRedisChecker redis 启用时追加热缓存连通性检查
func AddRedisChecker(aggregator *health.Aggregator, redisClient *redisstorage.Client) {
	if redisClient != nil {
		aggregator.AddChecker(health.NewRedisChecker(redisClient))
	}
}

// AddPlanMirrorChecker 热镜像启用时追加新鲜度检查。
// 允许窗口取两个刷新周期：偶发一次刷新失败不告警，连续失败才降级。
func AddPlanMirrorChecker(aggregator *health.Aggregator, hot *redisstorage.PlanCache, refreshInterval time.Duration) {
	if hot == nil {
		return
	}
	aggregator.AddChecker(health.NewPlanMirrorChecker(hot, 2*refreshInterval))
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}

// NewReady 创建就绪状态
func NewReady() *health.Readiness {
	return health.New()
}
