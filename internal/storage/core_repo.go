package storage

import (
	"context"
	"errors"
	"time"

	"github.com/simvista/sim-server/internal/storage/models"
)

// ErrNotFound 查询目标不存在
var ErrNotFound = errors.New("storage: not found")

// CoreRepo 面向核心流程的存储抽象。
// 约束：
// - 禁止上层直接写 SQL，统一通过本接口访问
// - 实现需要提供事务封装 WithTx，保证核心路径原子性
// - 接口必须保持 DB-agnostic（面向模型与基础类型）
type CoreRepo interface {
	// ---------- 事务 ----------
	// WithTx 在单个事务中执行 fn，fn 内使用 repo 执行的所有写入/读取都在同一事务中。
	// 实现应保证嵌套调用正确复用当前事务。
	WithTx(ctx context.Context, fn func(repo CoreRepo) error) error

	// ---------- 切换事件 ----------
	// RecordSwitchEvent 持久化一条切换事件并返回分配的 id。
	// 写入失败必须向调用方返回错误，事件日志不允许静默丢失。
	RecordSwitchEvent(ctx context.Context, ev *models.SwitchEvent) (int64, error)
	// MarkSwitchOutcome 幂等更新事件的 is_successful 字段。
	// id 不存在时为 no-op（事件可能已被保留窗口清理），不返回错误。
	MarkSwitchOutcome(ctx context.Context, eventID int64, successful bool) error
	// GetSwitchEvent 按 id 查询事件
	GetSwitchEvent(ctx context.Context, eventID int64) (*models.SwitchEvent, error)
	// ListSwitchEvents 按时间倒序分页返回事件
	ListSwitchEvents(ctx context.Context, limit, offset int) ([]models.SwitchEvent, error)
	// ListSwitchEventsSince 返回 since 之后的事件（时间倒序）
	ListSwitchEventsSince(ctx context.Context, since time.Time) ([]models.SwitchEvent, error)
	// ListSwitchEventsBySlot 返回涉及指定槽位（old 或 new）的事件
	ListSwitchEventsBySlot(ctx context.Context, slot int) ([]models.SwitchEvent, error)
	// LatestSwitchEvent 返回最近一条事件；无事件时返回 ErrNotFound
	LatestSwitchEvent(ctx context.Context) (*models.SwitchEvent, error)
	// CountSwitchEventsSince 统计 since 之后的事件数（24h/7d 汇总用）
	CountSwitchEventsSince(ctx context.Context, since time.Time) (int64, error)
	// CleanupSwitchEvents 删除 timestamp 早于 cutoff 的事件，返回删除条数
	CleanupSwitchEvents(ctx context.Context, cutoff time.Time) (int64, error)

	// ---------- 套餐镜像 ----------
	// UpsertPlans 批量写入/覆盖套餐（按 id 冲突覆盖）
	UpsertPlans(ctx context.Context, plans []models.Plan) error
	// PurgePlansBefore 删除 synced_at 早于 cutoff 的条目，返回删除条数
	PurgePlansBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// ListPlans 返回全部镜像条目
	ListPlans(ctx context.Context) ([]models.Plan, error)
	// ListPlansByCarrier 按运营商名子串（大小写不敏感）过滤
	ListPlansByCarrier(ctx context.Context, fragment string) ([]models.Plan, error)
	// GetPlan 按不透明 id 查询
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	// CountPlans 镜像条目数
	CountPlans(ctx context.Context) (int64, error)

	// ---------- SIM 卡资源 ----------
	CreateSimCard(ctx context.Context, card *models.SimCard) error
	GetSimCard(ctx context.Context, id int64) (*models.SimCard, error)
	ListSimCards(ctx context.Context, limit, offset int) ([]models.SimCard, error)
	UpdateSimCard(ctx context.Context, card *models.SimCard) error
	DeleteSimCard(ctx context.Context, id int64) error

	// ---------- 同步任务队列 ----------
	// EnqueueSyncJob 入队一条同步任务，返回任务 id
	EnqueueSyncJob(ctx context.Context, job *models.SyncJob) (int64, error)
	// DequeueDueSyncJobs 取出到期的待处理任务（status=pending 且 not_before 为空或已到期）
	DequeueDueSyncJobs(ctx context.Context, now time.Time, limit int) ([]models.SyncJob, error)
	// MarkSyncJobDone 标记任务成功终态
	MarkSyncJobDone(ctx context.Context, id int64) error
	// MarkSyncJobFailed 标记任务失败终态并记录错误
	MarkSyncJobFailed(ctx context.Context, id int64, lastError string) error
	// RescheduleSyncJob 失败重试：递增 retry_count 并设置下次可执行时间
	RescheduleSyncJob(ctx context.Context, id int64, retryCount int32, notBefore time.Time, lastError string) error
	// CountPendingSyncJobs 统计 pending 任务数（含未到期的退避任务），积压监控用
	CountPendingSyncJobs(ctx context.Context) (int64, error)
}
