package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
	redisstorage "github.com/simvista/sim-server/internal/storage/redis"
)

// ErrEmptyCache 刷新失败且本地镜像为空
var ErrEmptyCache = errors.New("catalog: refresh failed and local mirror is empty")

// HotMirror 套餐热镜像抽象（redis 实现见 internal/storage/redis）。
// Load 无数据时返回 redisstorage.ErrCacheMiss。
type HotMirror interface {
	Store(ctx context.Context, plans []models.Plan, at time.Time) error
	Load(ctx context.Context) ([]models.Plan, error)
	Invalidate(ctx context.Context) error
	RefreshedAt(ctx context.Context) (time.Time, error)
}

// PlanCache 套餐目录的离线优先镜像。
// 读取永远走本地（热缓存→DB 镜像），只有显式 Refresh 才触网；
// 刷新失败时退回非空的既有镜像（stale-but-available）。
type PlanCache struct {
	client    *Client
	repo      storage.CoreRepo
	hot       HotMirror // 可选
	retention time.Duration
	metrics   *metrics.AppMetrics
	logger    *zap.Logger
}

// NewPlanCache 创建套餐镜像
func NewPlanCache(client *Client, repo storage.CoreRepo, hot HotMirror, retention time.Duration, m *metrics.AppMetrics, logger *zap.Logger) *PlanCache {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &PlanCache{
		client:    client,
		repo:      repo,
		hot:       hot,
		retention: retention,
		metrics:   m,
		logger:    logger,
	}
}

// Refresh 从远端拉取并合并到本地镜像。
// 成功：覆盖写入、按保留窗口清理旧条目、回填热缓存、返回新集合。
// 失败：本地镜像非空则返回镜像（记 stale），为空则返回 ErrEmptyCache 包装错误。
func (pc *PlanCache) Refresh(ctx context.Context) ([]models.Plan, error) {
	dtos, err := pc.client.FetchPlans(ctx, "")
	if err != nil {
		return pc.fallback(ctx, err)
	}

	now := time.Now()
	plans := make([]models.Plan, 0, len(dtos))
	for _, dto := range dtos {
		plans = append(plans, planFromDTO(dto, now))
	}

	if err := pc.repo.UpsertPlans(ctx, plans); err != nil {
		// 持久化失败是正确性问题，不静默吞掉
		pc.count("error")
		return nil, fmt.Errorf("catalog mirror write: %w", err)
	}

	purged, err := pc.repo.PurgePlansBefore(ctx, now.Add(-pc.retention))
	if err != nil {
		pc.logger.Warn("plan mirror purge failed", zap.Error(err))
	} else if purged > 0 {
		pc.logger.Info("plan mirror purged", zap.Int64("purged", purged))
	}

	if pc.hot != nil {
		// 镜像有条目被清理时先整体失效，避免热缓存短暂残留已下架套餐
		if purged > 0 {
			if err := pc.hot.Invalidate(ctx); err != nil {
				pc.logger.Warn("plan hot cache invalidate failed", zap.Error(err))
			}
		}
		if err := pc.hot.Store(ctx, plans, now); err != nil {
			pc.logger.Warn("plan hot cache store failed", zap.Error(err))
		}
	}

	if pc.metrics != nil {
		pc.metrics.PlanMirrorSize.Set(float64(len(plans)))
	}
	pc.count("ok")
	pc.logger.Info("plan catalog refreshed", zap.Int("plans", len(plans)))
	return plans, nil
}

// fallback 刷新失败时返回既有镜像
func (pc *PlanCache) fallback(ctx context.Context, cause error) ([]models.Plan, error) {
	cached, listErr := pc.repo.ListPlans(ctx)
	if listErr == nil && len(cached) > 0 {
		pc.count("stale")
		pc.logger.Warn("catalog refresh failed, serving stale mirror",
			zap.Int("plans", len(cached)),
			zap.Error(cause))
		return cached, nil
	}
	pc.count("error")
	return nil, fmt.Errorf("%w: %v", ErrEmptyCache, cause)
}

// List 离线读取：优先热缓存，miss 或未启用时走 DB 镜像
func (pc *PlanCache) List(ctx context.Context) ([]models.Plan, error) {
	if pc.hot != nil {
		if plans, err := pc.hot.Load(ctx); err == nil {
			return plans, nil
		} else if !errors.Is(err, redisstorage.ErrCacheMiss) {
			pc.logger.Warn("plan hot cache load failed", zap.Error(err))
		}
	}
	return pc.repo.ListPlans(ctx)
}

// RunPeriodicRefresh 周期刷新循环（机会式：失败只记日志，下轮再试）
func (pc *PlanCache) RunPeriodicRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	pc.logger.Info("plan catalog refresher started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			pc.logger.Info("plan catalog refresher stopped")
			return
		case <-ticker.C:
			if _, err := pc.Refresh(ctx); err != nil {
				pc.logger.Warn("periodic catalog refresh failed", zap.Error(err))
			}
		}
	}
}

func (pc *PlanCache) count(result string) {
	if pc.metrics != nil {
		pc.metrics.CatalogRefreshTotal.WithLabelValues(result).Inc()
	}
}

func planFromDTO(dto PlanDTO, syncedAt time.Time) models.Plan {
	return models.Plan{
		ID:             dto.ID,
		Name:           dto.Name,
		Price:          float64(dto.Price),
		DataAllowance:  dto.Data,
		CarrierName:    dto.CarrierName,
		PlanType:       dto.PlanType,
		ContractLength: int(dto.ContractLength),
		Features:       dto.Features,
		SyncedAt:       syncedAt,
	}
}
