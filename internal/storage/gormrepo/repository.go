package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
)

// Repository 基于 GORM 的 CoreRepo 实现。
// 使用 isTx 标记区分事务上下文，避免嵌套事务重复 Begin/Commit。
type Repository struct {
	db   *gorm.DB
	isTx bool
}

// New 返回一个使用给定 *gorm.DB 的 CoreRepo 实例。
func New(db *gorm.DB) storage.CoreRepo {
	return &Repository{db: db}
}

// WithTx 复用现有事务或开启新事务执行 fn。
func (r *Repository) WithTx(ctx context.Context, fn func(storage.CoreRepo) error) error {
	if r.isTx {
		return fn(r)
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	child := &Repository{db: tx, isTx: true}
	if err := fn(child); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ---------- 切换事件 ----------

// RecordSwitchEvent 持久化切换事件，is_successful 默认 true。
func (r *Repository) RecordSwitchEvent(ctx context.Context, ev *models.SwitchEvent) (int64, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.IsSuccessful = true
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return 0, fmt.Errorf("record switch event: %w", err)
	}
	return ev.ID, nil
}

// MarkSwitchOutcome 只更新 is_successful 单字段；id 不存在时为 no-op。
func (r *Repository) MarkSwitchOutcome(ctx context.Context, eventID int64, successful bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.SwitchEvent{}).
		Where("id = ?", eventID).
		Update("is_successful", successful)
	// RowsAffected=0 说明事件已被清理，按约定不视为错误
	return res.Error
}

// GetSwitchEvent 按 id 查询事件。
func (r *Repository) GetSwitchEvent(ctx context.Context, eventID int64) (*models.SwitchEvent, error) {
	var ev models.SwitchEvent
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	return &ev, err
}

// ListSwitchEvents 按时间倒序分页返回事件。
func (r *Repository) ListSwitchEvents(ctx context.Context, limit, offset int) ([]models.SwitchEvent, error) {
	var events []models.SwitchEvent
	q := r.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListSwitchEventsSince 返回 since 之后的事件。
func (r *Repository) ListSwitchEventsSince(ctx context.Context, since time.Time) ([]models.SwitchEvent, error) {
	var events []models.SwitchEvent
	err := r.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListSwitchEventsBySlot 返回涉及指定槽位的事件（old 或 new 任一匹配）。
func (r *Repository) ListSwitchEventsBySlot(ctx context.Context, slot int) ([]models.SwitchEvent, error) {
	var events []models.SwitchEvent
	err := r.db.WithContext(ctx).
		Where("old_sim_slot = ? OR new_sim_slot = ?", slot, slot).
		Order("timestamp DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// LatestSwitchEvent 返回最近一条事件。
func (r *Repository) LatestSwitchEvent(ctx context.Context) (*models.SwitchEvent, error) {
	var ev models.SwitchEvent
	err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	return &ev, err
}

// CountSwitchEventsSince 统计 since 之后的事件数。
func (r *Repository) CountSwitchEventsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SwitchEvent{}).
		Where("timestamp >= ?", since).
		Count(&count).Error
	return count, err
}

// CleanupSwitchEvents 删除 timestamp 早于 cutoff 的事件。
func (r *Repository) CleanupSwitchEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.SwitchEvent{})
	return res.RowsAffected, res.Error
}

// ---------- 套餐镜像 ----------

// UpsertPlans 批量写入套餐，id 冲突时覆盖全部业务字段。
func (r *Repository) UpsertPlans(ctx context.Context, plans []models.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "data_allowance", "carrier_name",
				"plan_type", "contract_length", "features", "synced_at", "updated_at",
			}),
		}).
		Create(&plans).Error
}

// PurgePlansBefore 删除 synced_at 早于 cutoff 的条目。
func (r *Repository) PurgePlansBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("synced_at < ?", cutoff).
		Delete(&models.Plan{})
	return res.RowsAffected, res.Error
}

// ListPlans 返回全部镜像条目，按 id 排序保证稳定输出。
func (r *Repository) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.WithContext(ctx).Order("id").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// ListPlansByCarrier 按运营商名子串过滤（大小写不敏感）。
func (r *Repository) ListPlansByCarrier(ctx context.Context, fragment string) ([]models.Plan, error) {
	var plans []models.Plan
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(carrier_name) LIKE ?", pattern).
		Order("id").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// GetPlan 按不透明 id 查询。
func (r *Repository) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	return &plan, err
}

// CountPlans 镜像条目数。
func (r *Repository) CountPlans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Plan{}).Count(&count).Error
	return count, err
}

// ---------- SIM 卡资源 ----------

func (r *Repository) CreateSimCard(ctx context.Context, card *models.SimCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *Repository) GetSimCard(ctx context.Context, id int64) (*models.SimCard, error) {
	var card models.SimCard
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	return &card, err
}

func (r *Repository) ListSimCards(ctx context.Context, limit, offset int) ([]models.SimCard, error) {
	var cards []models.SimCard
	q := r.db.WithContext(ctx).Order("slot_number, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *Repository) UpdateSimCard(ctx context.Context, card *models.SimCard) error {
	res := r.db.WithContext(ctx).
		Model(&models.SimCard{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"slot_number":  card.SlotNumber,
			"carrier_name": card.CarrierName,
			"sim_state":    card.SimState,
			"network_type": card.NetworkType,
			"iccid":        card.ICCID,
			"imsi":         card.IMSI,
			"phone_number": card.PhoneNumber,
			"country_code": card.CountryCode,
			"is_active":    card.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteSimCard(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SimCard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ---------- 同步任务队列 ----------

// EnqueueSyncJob 入队同步任务。
func (r *Repository) EnqueueSyncJob(ctx context.Context, job *models.SyncJob) (int64, error) {
	job.Status = models.SyncJobPending
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return 0, fmt.Errorf("enqueue sync job: %w", err)
	}
	return job.ID, nil
}

// DequeueDueSyncJobs 取出到期的待处理任务，按创建顺序。
func (r *Repository) DequeueDueSyncJobs(ctx context.Context, now time.Time, limit int) ([]models.SyncJob, error) {
	var jobs []models.SyncJob
	q := r.db.WithContext(ctx).
		Where("status = ? AND (not_before IS NULL OR not_before <= ?)", models.SyncJobPending, now).
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkSyncJobDone 标记成功终态。
func (r *Repository) MarkSyncJobDone(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Update("status", models.SyncJobDone).Error
}

// MarkSyncJobFailed 标记失败终态并记录错误。
func (r *Repository) MarkSyncJobFailed(ctx context.Context, id int64, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.SyncJobFailed,
			"last_error": lastError,
		}).Error
}

// CountPendingSyncJobs 统计 pending 任务数，包含退避等待中的任务。
func (r *Repository) CountPendingSyncJobs(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("status = ?", models.SyncJobPending).
		Count(&count).Error
	return count, err
}

// RescheduleSyncJob 写入重试计数与下次可执行时间，任务回到 pending。
func (r *Repository) RescheduleSyncJob(ctx context.Context, id int64, retryCount int32, notBefore time.Time, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.SyncJobPending,
			"retry_count": retryCount,
			"not_before":  notBefore,
			"last_error":  lastError,
		}).Error
}
