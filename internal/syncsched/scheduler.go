package syncsched

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
)

// Scheduler 同步任务调度入口。
// 每次切换恰好入队一条任务；任务只保存事件 id 回引，不持有事件本身，
// 任务生命周期与事件生命周期互不耦合。
type Scheduler struct {
	repo   storage.CoreRepo
	logger *zap.Logger
}

// NewScheduler 创建调度器
func NewScheduler(repo storage.CoreRepo, logger *zap.Logger) *Scheduler {
	return &Scheduler{repo: repo, logger: logger}
}

// ScheduleSync 为一次切换入队余额同步任务
func (s *Scheduler) ScheduleSync(ctx context.Context, slot int, carrierName string, eventID int64) error {
	job := &models.SyncJob{
		EventID:     eventID,
		SlotNumber:  slot,
		CarrierName: carrierName,
	}
	id, err := s.repo.EnqueueSyncJob(ctx, job)
	if err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	s.logger.Info("balance sync scheduled",
		zap.Int64("job_id", id),
		zap.Int64("event_id", eventID),
		zap.Int("slot", slot),
		zap.String("carrier", carrierName))
	return nil
}
