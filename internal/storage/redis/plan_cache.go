package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simvista/sim-server/internal/storage/models"
)

const (
	// Redis Key前缀
	planCatalogKey   = "plans:catalog"      // 全量镜像（String，JSON）
	planRefreshedKey = "plans:refreshed_at" // 最近一次成功刷新时间
)

// ErrCacheMiss 热缓存无数据
var ErrCacheMiss = errors.New("plan cache miss")

// PlanCache 套餐目录的 Redis 热镜像。
// DB 镜像是读路径的兜底，这里只承担热路径，miss 时调用方回退到仓储。
type PlanCache struct {
	client *Client
	ttl    time.Duration
}

// NewPlanCache 创建套餐热缓存
func NewPlanCache(client *Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PlanCache{client: client, ttl: ttl}
}

// Store 覆盖写入全量套餐列表并刷新时间戳
func (c *PlanCache) Store(ctx context.Context, plans []models.Plan, at time.Time) error {
	data, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("marshal plans: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, planCatalogKey, data, c.ttl)
	pipe.Set(ctx, planRefreshedKey, at.Format(time.RFC3339Nano), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Load 读取全量套餐列表；无数据返回 ErrCacheMiss
func (c *PlanCache) Load(ctx context.Context) ([]models.Plan, error) {
	data, err := c.client.Get(ctx, planCatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var plans []models.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("unmarshal plans: %w", err)
	}
	return plans, nil
}

// RefreshedAt 最近一次成功刷新时间；无记录返回零值
func (c *PlanCache) RefreshedAt(ctx context.Context) (time.Time, error) {
	s, err := c.client.Get(ctx, planRefreshedKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Invalidate 清空热缓存（镜像清理后调用）
func (c *PlanCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, planCatalogKey, planRefreshedKey).Err()
}
