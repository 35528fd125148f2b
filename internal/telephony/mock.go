package telephony

import "errors"

var errNoPlatform = errors.New("telephony platform not configured")

// MockRecords 返回固定的降级兜底记录集。
// 记录带 Mock 标记，槽位 0 提供可展示的占位运营商，槽位 1 表示无数据。
func MockRecords() []SimRecord {
	return []SimRecord{
		{
			SlotNumber:  0,
			CarrierName: "Demo Carrier",
			SimState:    SimStateReady,
			NetworkType: NetworkLTE,
			Mock:        true,
		},
		{
			SlotNumber:  1,
			CarrierName: "No SIM data available",
			SimState:    SimStateAbsent,
			NetworkType: NetworkUnknown,
			Mock:        true,
		},
	}
}
