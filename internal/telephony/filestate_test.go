package telephony

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeState(t *testing.T, content string) *FilePlatform {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewFilePlatform(path)
}

// TestFilePlatformPermission 权限标志来自状态文件
func TestFilePlatformPermission(t *testing.T) {
	p := writeState(t, `
permission:
  granted: false
  canPrompt: true
multiSubscription: true
slots: []
`)
	assert.False(t, p.Granted())
	assert.True(t, p.CanPrompt())
}

// TestFilePlatformSubscriptions 槽位枚举与状态解析
func TestFilePlatformSubscriptions(t *testing.T) {
	p := writeState(t, `
permission:
  granted: true
  canPrompt: true
multiSubscription: true
slots:
  - slot: 1
    carrier: "T-Mobile"
    state: READY
    network: 5G
  - slot: 0
    carrier: "AT&T"
    state: NOT_READY
    network: LTE
`)
	subs, err := p.Subscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, SimStateReady, subs[0].State)
	assert.Equal(t, Network5G, subs[0].Network)

	// 旧式单槽位查询取槽位号最小的一条
	def, err := p.DefaultSubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, def.SlotNumber)
	assert.Equal(t, "AT&T", def.CarrierName)
}

// TestFilePlatformMissingFile 文件缺失时权限为拒绝、读取报错
func TestFilePlatformMissingFile(t *testing.T) {
	p := NewFilePlatform("/nonexistent/state.yaml")
	assert.False(t, p.Granted())
	assert.False(t, p.CanPrompt())
	_, err := p.Subscriptions(context.Background())
	assert.Error(t, err)
}
