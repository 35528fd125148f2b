package syncsched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/storage/models"
)

// TestRetentionCleanerRemovesOldEvents 窗口外事件被清理，窗口内保留
func TestRetentionCleanerRemovesOldEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	old := &models.SwitchEvent{Timestamp: now.Add(-31 * 24 * time.Hour), OldSim: "a", NewSim: "b"}
	fresh := &models.SwitchEvent{Timestamp: now.Add(-time.Hour), OldSim: "a", NewSim: "b"}
	_, err := repo.RecordSwitchEvent(ctx, old)
	require.NoError(t, err)
	keepID, err := repo.RecordSwitchEvent(ctx, fresh)
	require.NoError(t, err)

	cleaner := NewRetentionCleaner(repo, nil, zap.NewNop(), 30*24*time.Hour, time.Hour)
	cleaner.CleanOnce(ctx)

	events, err := repo.ListSwitchEvents(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, keepID, events[0].ID)

	// 再跑一轮：窗口内事件不受影响，清理是幂等的
	cleaner.CleanOnce(ctx)
	cleaned, err := repo.CleanupSwitchEvents(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, cleaned)

	events, err = repo.ListSwitchEvents(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
