package telephony

import "context"

// Subscription 平台侧的单个有效 SIM 配置句柄
type Subscription struct {
	SlotNumber  int
	CarrierName string
	State       SimState
	Network     NetworkType
}

// Platform 平台电话子系统抽象。
// 能力按平台版本分级：不支持多订阅枚举的平台退回单槽位查询。
type Platform interface {
	// SupportsMultiSubscription 平台是否支持多订阅枚举
	SupportsMultiSubscription() bool
	// Subscriptions 枚举全部有效订阅（仅多订阅平台）
	Subscriptions(ctx context.Context) ([]Subscription, error)
	// DefaultSubscription 旧式单槽位查询（兜底路径）
	DefaultSubscription(ctx context.Context) (Subscription, error)
}
