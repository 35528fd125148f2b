package switchflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/gormrepo"
	"github.com/simvista/sim-server/internal/storage/models"
	"github.com/simvista/sim-server/internal/syncsched"
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

func newService(t *testing.T) (*Service, storage.CoreRepo) {
	t.Helper()
	repo := newTestRepo(t)
	sched := syncsched.NewScheduler(repo, zap.NewNop())
	return NewService(repo, sched, nil, zap.NewNop()), repo
}

// TestExecuteRecordsEventAndSchedulesSync 事件先落库，再用事件id入队同步任务
func TestExecuteRecordsEventAndSchedulesSync(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	reason := "manual"
	id, err := svc.Execute(ctx, Request{
		OldSim:     "AT&T",
		NewSim:     "T-Mobile",
		OldSimSlot: 0,
		NewSimSlot: 1,
		Reason:     &reason,
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	ev, err := repo.GetSwitchEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T-Mobile", ev.NewSim)
	assert.True(t, ev.IsSuccessful) // 乐观默认，由同步任务写入最终值
	require.NotNil(t, ev.SwitchReason)
	assert.Equal(t, "manual", *ev.SwitchReason)

	jobs, err := repo.DequeueDueSyncJobs(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].EventID)
	// 未显式给出运营商名时用新SIM显示名
	assert.Equal(t, "T-Mobile", jobs[0].CarrierName)
}

// TestExecuteConfirmed 确认后执行，取消则不产生任何事件
func TestExecuteConfirmed(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	req := Request{OldSim: "AT&T", NewSim: "Verizon", NewSimSlot: 1}

	conf := NewConfirmation()
	conf.Cancel()
	id, err := svc.ExecuteConfirmed(ctx, req, conf)
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = repo.LatestSwitchEvent(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	conf = NewConfirmation()
	conf.Confirm()
	id, err = svc.ExecuteConfirmed(ctx, req, conf)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
}
