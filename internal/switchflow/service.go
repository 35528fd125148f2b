package switchflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
	"github.com/simvista/sim-server/internal/syncsched"
)

// Request 一次 SIM 切换的描述
type Request struct {
	OldSim      string
	NewSim      string
	OldSimSlot  int
	NewSimSlot  int
	Reason      *string
	CarrierName string
}

// Service 切换流程编排。
// 顺序约束：事件先落库拿到 id，再用该 id 调度同步任务；
// 任一步失败都向调用方返回错误，不做静默降级。
type Service struct {
	repo      storage.CoreRepo
	scheduler *syncsched.Scheduler
	metrics   *metrics.AppMetrics
	logger    *zap.Logger
}

// NewService 创建切换服务
func NewService(repo storage.CoreRepo, scheduler *syncsched.Scheduler, m *metrics.AppMetrics, logger *zap.Logger) *Service {
	return &Service{repo: repo, scheduler: scheduler, metrics: m, logger: logger}
}

// Execute 记录切换事件并调度余额同步，返回事件 id
func (s *Service) Execute(ctx context.Context, req Request) (int64, error) {
	event := &models.SwitchEvent{
		Timestamp:    time.Now(),
		OldSim:       req.OldSim,
		NewSim:       req.NewSim,
		OldSimSlot:   req.OldSimSlot,
		NewSimSlot:   req.NewSimSlot,
		SwitchReason: req.Reason,
		IsSuccessful: true,
	}

	id, err := s.repo.RecordSwitchEvent(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("record switch event: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SwitchEventsTotal.Inc()
	}

	carrierName := req.CarrierName
	if carrierName == "" {
		carrierName = req.NewSim
	}
	if err := s.scheduler.ScheduleSync(ctx, req.NewSimSlot, carrierName, id); err != nil {
		// 事件已落库，调度失败交由调用方重试
		return id, err
	}

	s.logger.Info("sim switch executed",
		zap.Int64("event_id", id),
		zap.String("old_sim", req.OldSim),
		zap.String("new_sim", req.NewSim),
		zap.Int("new_slot", req.NewSimSlot))
	return id, nil
}

// ExecuteConfirmed 等待确认后再执行切换。
// 取消或 ctx 超时都不会产生事件，返回 (0, nil) 表示用户取消。
func (s *Service) ExecuteConfirmed(ctx context.Context, req Request, conf *Confirmation) (int64, error) {
	outcome, err := conf.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("switch confirmation: %w", err)
	}
	if outcome != Confirmed {
		s.logger.Info("sim switch cancelled",
			zap.String("old_sim", req.OldSim),
			zap.String("new_sim", req.NewSim))
		return 0, nil
	}
	return s.Execute(ctx, req)
}
