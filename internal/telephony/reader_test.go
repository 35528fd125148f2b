package telephony

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/permission"
)

type fakePlatform struct {
	multi   bool
	subs    []Subscription
	err     error
	defSub  Subscription
	defErr  error
}

func (p *fakePlatform) SupportsMultiSubscription() bool { return p.multi }
func (p *fakePlatform) Subscriptions(ctx context.Context) ([]Subscription, error) {
	return p.subs, p.err
}
func (p *fakePlatform) DefaultSubscription(ctx context.Context) (Subscription, error) {
	return p.defSub, p.defErr
}

// TestReadDenied 权限未授予时返回占位数据，不触碰平台
func TestReadDenied(t *testing.T) {
	reader := NewReader(&fakePlatform{}, nil, zap.NewNop())

	for _, d := range []permission.Decision{permission.NeedsRationale, permission.PermanentlyDenied} {
		records := reader.Read(context.Background(), d)
		require.Len(t, records, 2)
		assert.True(t, records[0].Mock)
		assert.True(t, records[1].Mock)
		assert.Equal(t, "Demo Carrier", records[0].CarrierName)
	}
}

// TestReadPlatformError 平台读取失败时降级为占位数据，不向调用方抛错
func TestReadPlatformError(t *testing.T) {
	platform := &fakePlatform{multi: true, err: errors.New("telephony subsystem unavailable")}
	reader := NewReader(platform, nil, zap.NewNop())

	records := reader.Read(context.Background(), permission.Granted)
	require.Len(t, records, 2)
	assert.True(t, records[0].Mock)
}

// TestReadNoPlatform 未配置平台时同样降级
func TestReadNoPlatform(t *testing.T) {
	reader := NewReader(nil, nil, zap.NewNop())
	records := reader.Read(context.Background(), permission.Granted)
	require.Len(t, records, 2)
	assert.True(t, records[0].Mock)
}

// TestReadMultiSubscriptionOrdering 多订阅结果按槽位号升序返回
func TestReadMultiSubscriptionOrdering(t *testing.T) {
	platform := &fakePlatform{
		multi: true,
		subs: []Subscription{
			{SlotNumber: 1, CarrierName: "T-Mobile", State: SimStateReady, Network: Network5G},
			{SlotNumber: 0, CarrierName: "AT&T", State: SimStateReady, Network: NetworkLTE},
		},
	}
	reader := NewReader(platform, nil, zap.NewNop())

	records := reader.Read(context.Background(), permission.Granted)
	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].SlotNumber)
	assert.Equal(t, "AT&T", records[0].CarrierName)
	assert.Equal(t, 1, records[1].SlotNumber)
	assert.False(t, records[0].Mock)
}

// TestReadLegacySingleSlot 不支持多订阅时走单槽位查询
func TestReadLegacySingleSlot(t *testing.T) {
	platform := &fakePlatform{
		multi:  false,
		defSub: Subscription{SlotNumber: 0, CarrierName: "Verizon", State: SimStateReady, Network: NetworkLTE},
	}
	reader := NewReader(platform, nil, zap.NewNop())

	records := reader.Read(context.Background(), permission.Granted)
	require.Len(t, records, 1)
	assert.Equal(t, "Verizon", records[0].CarrierName)
}

// TestReadEmptyLiveResult 平台返回空集时降级为占位数据
func TestReadEmptyLiveResult(t *testing.T) {
	platform := &fakePlatform{multi: true, subs: nil}
	reader := NewReader(platform, nil, zap.NewNop())

	records := reader.Read(context.Background(), permission.Granted)
	require.Len(t, records, 2)
	assert.True(t, records[0].Mock)
}

// TestParseSimState 未知字符串归一到UNKNOWN
func TestParseSimState(t *testing.T) {
	assert.Equal(t, SimStateReady, ParseSimState("READY"))
	assert.Equal(t, SimStateUnknown, ParseSimState("whatever"))
	assert.Equal(t, NetworkUnknown, ParseNetworkType("6G"))
}
