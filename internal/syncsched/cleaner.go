package syncsched

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/storage"
)

// RetentionCleaner 周期清理过期切换事件。
// 保留窗口外的历史事件对统计不再有意义，定期批量删除防止表无限增长。
type RetentionCleaner struct {
	repo      storage.CoreRepo
	metrics   *metrics.AppMetrics
	logger    *zap.Logger
	retention time.Duration
	interval  time.Duration

	statsRounds  int64
	statsCleaned int64
}

// NewRetentionCleaner 创建清理器（retention 默认 30 天，interval 默认 1 小时）
func NewRetentionCleaner(repo storage.CoreRepo, m *metrics.AppMetrics, logger *zap.Logger, retention, interval time.Duration) *RetentionCleaner {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &RetentionCleaner{
		repo:      repo,
		metrics:   m,
		logger:    logger,
		retention: retention,
		interval:  interval,
	}
}

// Run 启动清理循环
func (c *RetentionCleaner) Run(ctx context.Context) {
	c.logger.Info("event retention cleaner started",
		zap.Duration("retention", c.retention),
		zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("event retention cleaner stopped",
				zap.Int64("rounds", c.statsRounds),
				zap.Int64("total_cleaned", c.statsCleaned))
			return
		case <-ticker.C:
			c.cleanOnce(ctx)
		}
	}
}

// CleanOnce 执行一轮清理（测试直接调用）
func (c *RetentionCleaner) CleanOnce(ctx context.Context) { c.cleanOnce(ctx) }

func (c *RetentionCleaner) cleanOnce(ctx context.Context) {
	c.statsRounds++
	cutoff := time.Now().Add(-c.retention)

	cleaned, err := c.repo.CleanupSwitchEvents(ctx, cutoff)
	if err != nil {
		c.logger.Error("switch event cleanup failed", zap.Error(err))
		return
	}
	if cleaned == 0 {
		return
	}

	c.statsCleaned += cleaned
	if c.metrics != nil {
		c.metrics.EventsCleanedTotal.Add(float64(cleaned))
	}
	c.logger.Info("switch events cleaned",
		zap.Int64("cleaned", cleaned),
		zap.Time("cutoff", cutoff))
}
