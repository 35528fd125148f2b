package syncsched

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simvista/sim-server/internal/carrier"
	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/gormrepo"
	"github.com/simvista/sim-server/internal/storage/models"
)

func newTestRepo(t *testing.T) storage.CoreRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return gormrepo.New(db)
}

func recordEvent(t *testing.T, repo storage.CoreRepo, carrierName string) int64 {
	t.Helper()
	id, err := repo.RecordSwitchEvent(context.Background(), &models.SwitchEvent{
		Timestamp:    time.Now(),
		OldSim:       "AT&T",
		NewSim:       carrierName,
		OldSimSlot:   0,
		NewSimSlot:   1,
		IsSuccessful: true,
	})
	require.NoError(t, err)
	return id
}

type offlineChecker struct{}

func (offlineChecker) Online(ctx context.Context) bool { return false }

// TestSchedulerEnqueuesOneJobPerSwitch 每次切换恰好入队一条任务
func TestSchedulerEnqueuesOneJobPerSwitch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	sched := NewScheduler(repo, zap.NewNop())

	eventID := recordEvent(t, repo, "T-Mobile")
	require.NoError(t, sched.ScheduleSync(ctx, 1, "T-Mobile", eventID))

	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, eventID, jobs[0].EventID)
	assert.Equal(t, "T-Mobile", jobs[0].CarrierName)
}

// TestWorkerSuccess 成功路径：事件标记成功、任务进入终态
func TestWorkerSuccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "Verizon Wireless")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "Verizon Wireless"})
	require.NoError(t, err)

	var matched string
	w := NewWorker(repo, nil, nil, nil, zap.NewNop())
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		matched = profile.Name
		return nil
	})
	w.Tick(ctx)

	// 运营商名按片段匹配到对应档案
	assert.Equal(t, "verizon", matched)

	ev, err := repo.GetSwitchEvent(ctx, eventID)
	require.NoError(t, err)
	assert.True(t, ev.IsSuccessful)

	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

// TestWorkerGenericCarrierFallback 未知运营商名落到通用档案而非报错
func TestWorkerGenericCarrierFallback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "Rakuten Mobile")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "Rakuten Mobile"})
	require.NoError(t, err)

	var matched string
	w := NewWorker(repo, nil, nil, nil, zap.NewNop())
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		matched = profile.Name
		return nil
	})
	w.Tick(ctx)

	assert.Equal(t, "generic", matched)
}

// TestWorkerTransientRetry 瞬态失败按退避重排，重试成功后结果翻转
func TestWorkerTransientRetry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "AT&T")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "AT&T"})
	require.NoError(t, err)

	attempts := 0
	w := NewWorker(repo, nil, nil, nil, zap.NewNop())
	w.Configure(0, time.Millisecond, 5, 0)
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("carrier endpoint: %w", ErrTransient)
		}
		return nil
	})

	w.Tick(ctx)
	assert.Equal(t, 1, attempts)

	// 第一次失败后事件先标记为失败
	ev, err := repo.GetSwitchEvent(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ev.IsSuccessful)

	// 退避窗口内不可出队
	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now().Add(-time.Second), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// 等退避到期后重试成功，事件结果翻转
	time.Sleep(5 * time.Millisecond)
	w.Tick(ctx)
	assert.Equal(t, 2, attempts)

	ev, err = repo.GetSwitchEvent(ctx, eventID)
	require.NoError(t, err)
	assert.True(t, ev.IsSuccessful)
}

// TestWorkerTerminalFailure 非瞬态失败直接进入失败终态
func TestWorkerTerminalFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "AT&T")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "AT&T"})
	require.NoError(t, err)

	w := NewWorker(repo, nil, nil, nil, zap.NewNop())
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		return errors.New("carrier rejected account")
	})
	w.Tick(ctx)

	ev, err := repo.GetSwitchEvent(ctx, eventID)
	require.NoError(t, err)
	assert.False(t, ev.IsSuccessful)

	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

// TestWorkerRetryBudgetExhausted 重试额度耗尽后瞬态失败也进入终态
func TestWorkerRetryBudgetExhausted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "AT&T")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "AT&T"})
	require.NoError(t, err)

	attempts := 0
	w := NewWorker(repo, nil, nil, nil, zap.NewNop())
	w.Configure(0, time.Millisecond, 1, 0)
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		attempts++
		return fmt.Errorf("dial: %w", ErrTransient)
	})

	w.Tick(ctx)
	time.Sleep(5 * time.Millisecond)
	w.Tick(ctx)
	assert.Equal(t, 2, attempts)

	// 第二次失败时 retry_count 已达上限，任务终态
	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

// TestWorkerOfflineSkipsRound 离线时整轮跳过，任务保留在队列
func TestWorkerOfflineSkipsRound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID := recordEvent(t, repo, "AT&T")
	_, err := repo.EnqueueSyncJob(ctx, &models.SyncJob{EventID: eventID, SlotNumber: 1, CarrierName: "AT&T"})
	require.NoError(t, err)

	attempts := 0
	w := NewWorker(repo, nil, offlineChecker{}, nil, zap.NewNop())
	w.SetSyncFunc(func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
		attempts++
		return nil
	})
	w.Tick(ctx)

	assert.Zero(t, attempts)
	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

// TestIsTransient 瞬态错误判定
func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrTransient))
	assert.True(t, IsTransient(fmt.Errorf("wrap: %w", ErrTransient)))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(errors.New("bad credentials")))
	assert.False(t, IsTransient(nil))
}

// TestBackoffDoubling 退避按2的幂增长
func TestBackoffDoubling(t *testing.T) {
	w := NewWorker(nil, nil, nil, nil, zap.NewNop())
	w.Configure(0, 10*time.Second, 0, 0)

	assert.Equal(t, 10*time.Second, w.backoff(0))
	assert.Equal(t, 20*time.Second, w.backoff(1))
	assert.Equal(t, 80*time.Second, w.backoff(3))
}
