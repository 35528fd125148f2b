package switchflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownConfirmation 确认 id 不存在或已被回收
var ErrUnknownConfirmation = errors.New("switchflow: unknown confirmation id")

// PendingState 待确认切换所处阶段
type PendingState string

const (
	StateAwaiting  PendingState = "awaiting"  // 等待用户确认
	StateConfirmed PendingState = "confirmed" // 已确认并落事件
	StateCancelled PendingState = "cancelled" // 用户取消或确认超时
	StateFailed    PendingState = "failed"    // 确认后执行失败
)

// PendingStatus 待确认切换的当前状态快照
type PendingStatus struct {
	State   PendingState
	EventID int64
	Err     string
}

type pendingSwitch struct {
	conf      *Confirmation
	createdAt time.Time

	// 以下字段由 Coordinator.mu 保护
	state   PendingState
	eventID int64
	errMsg  string
}

// Coordinator 管理进行中的切换确认。
// Begin 为每次切换发放一次性确认 id，用户在确认窗口内 Confirm/Cancel；
// 只有确认后的切换才会落事件并调度同步，超时按取消处理。
type Coordinator struct {
	svc    *Service
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingSwitch
}

// NewCoordinator 创建协调器（ttl<=0 时确认窗口默认 2 分钟）
func NewCoordinator(svc *Service, ttl time.Duration, logger *zap.Logger) *Coordinator {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Coordinator{
		svc:     svc,
		ttl:     ttl,
		logger:  logger,
		pending: make(map[string]*pendingSwitch),
	}
}

// Begin 登记一次待确认切换，返回确认 id
func (c *Coordinator) Begin(req Request) string {
	id := uuid.NewString()
	entry := &pendingSwitch{
		conf:      NewConfirmation(),
		createdAt: time.Now(),
		state:     StateAwaiting,
	}

	c.mu.Lock()
	c.prune()
	c.pending[id] = entry
	c.mu.Unlock()

	go c.await(id, req, entry)

	c.logger.Info("switch confirmation requested",
		zap.String("confirmation_id", id),
		zap.String("old_sim", req.OldSim),
		zap.String("new_sim", req.NewSim))
	return id
}

// await 等待确认结果并推进状态机
func (c *Coordinator) await(id string, req Request, entry *pendingSwitch) {
	ctx, cancel := context.WithTimeout(context.Background(), c.ttl)
	defer cancel()

	eventID, err := c.svc.ExecuteConfirmed(ctx, req, entry.conf)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil && eventID > 0:
		entry.state = StateConfirmed
		entry.eventID = eventID
	case err == nil:
		entry.state = StateCancelled
	case errors.Is(err, context.DeadlineExceeded):
		// 确认窗口超时，视同取消
		entry.state = StateCancelled
		c.logger.Info("switch confirmation expired", zap.String("confirmation_id", id))
	default:
		entry.state = StateFailed
		entry.eventID = eventID
		entry.errMsg = err.Error()
		c.logger.Error("confirmed switch failed",
			zap.String("confirmation_id", id), zap.Error(err))
	}
}

// Confirm 确认指定切换
func (c *Coordinator) Confirm(id string) error {
	entry, err := c.lookup(id)
	if err != nil {
		return err
	}
	entry.conf.Confirm()
	return nil
}

// Cancel 取消指定切换
func (c *Coordinator) Cancel(id string) error {
	entry, err := c.lookup(id)
	if err != nil {
		return err
	}
	entry.conf.Cancel()
	return nil
}

// Status 返回切换当前状态
func (c *Coordinator) Status(id string) (PendingStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.pending[id]
	if !ok {
		return PendingStatus{}, ErrUnknownConfirmation
	}
	return PendingStatus{State: entry.state, EventID: entry.eventID, Err: entry.errMsg}, nil
}

func (c *Coordinator) lookup(id string) (*pendingSwitch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.pending[id]
	if !ok {
		return nil, ErrUnknownConfirmation
	}
	return entry, nil
}

// prune 回收早已终态的登记项，调用方需持有 c.mu。
// 终态结果保留一个确认窗口的时长供查询，之后删除。
func (c *Coordinator) prune() {
	deadline := time.Now().Add(-2 * c.ttl)
	for id, entry := range c.pending {
		if entry.state != StateAwaiting && entry.createdAt.Before(deadline) {
			delete(c.pending, id)
		}
	}
}
