package telephony

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/permission"
)

// Reader 设备状态读取器。
// 读取路径保证永不失败：权限未授予或平台调用异常时一律返回带标记的 mock 记录，
// UI 始终有内容可渲染（功能可见降级而非阻塞）。
type Reader struct {
	platform Platform
	metrics  *metrics.AppMetrics
	logger   *zap.Logger
}

// NewReader 创建读取器
func NewReader(platform Platform, m *metrics.AppMetrics, logger *zap.Logger) *Reader {
	return &Reader{platform: platform, metrics: m, logger: logger}
}

// Read 按权限判定读取 SIM 记录。
// 输出按槽位号升序稳定排序（调用方可据此做差分）。
// 本函数不做重试：权限拒绝后的重读由调用方在获得新授权后重新发起。
func (r *Reader) Read(ctx context.Context, decision permission.Decision) []SimRecord {
	if decision != permission.Granted {
		r.count("mock_denied")
		return MockRecords()
	}

	records, err := r.readLive(ctx)
	if err != nil {
		// 包含授权竞态：检查与读取之间授权被撤销。不向调用方抛出。
		if r.logger != nil {
			r.logger.Warn("live device read failed, falling back to mock", zap.Error(err))
		}
		r.count("mock_error")
		return MockRecords()
	}
	if len(records) == 0 {
		r.count("mock_error")
		return MockRecords()
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SlotNumber < records[j].SlotNumber
	})
	r.count("live")
	return records
}

// readLive 优先多订阅枚举，平台不支持时退回单槽位查询
func (r *Reader) readLive(ctx context.Context) ([]SimRecord, error) {
	if r.platform == nil {
		return nil, errNoPlatform
	}

	if r.platform.SupportsMultiSubscription() {
		subs, err := r.platform.Subscriptions(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]SimRecord, 0, len(subs))
		for _, sub := range subs {
			records = append(records, recordFromSubscription(sub))
		}
		return records, nil
	}

	sub, err := r.platform.DefaultSubscription(ctx)
	if err != nil {
		return nil, err
	}
	return []SimRecord{recordFromSubscription(sub)}, nil
}

func recordFromSubscription(sub Subscription) SimRecord {
	return SimRecord{
		SlotNumber:  sub.SlotNumber,
		CarrierName: sub.CarrierName,
		SimState:    sub.State,
		NetworkType: sub.Network,
	}
}

func (r *Reader) count(result string) {
	if r.metrics != nil {
		r.metrics.DeviceReadTotal.WithLabelValues(result).Inc()
	}
}
