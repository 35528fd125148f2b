package telephony

// SimState SIM 卡状态（与平台上报值一一对应）
type SimState string

const (
	SimStateReady          SimState = "READY"
	SimStateAbsent         SimState = "ABSENT"
	SimStatePinRequired    SimState = "PIN_REQUIRED"
	SimStatePukRequired    SimState = "PUK_REQUIRED"
	SimStateNetworkLocked  SimState = "NETWORK_LOCKED"
	SimStateNotReady       SimState = "NOT_READY"
	SimStatePermDisabled   SimState = "PERM_DISABLED"
	SimStateCardIOError    SimState = "CARD_IO_ERROR"
	SimStateCardRestricted SimState = "CARD_RESTRICTED"
	SimStateUnknown        SimState = "UNKNOWN"
)

// NetworkType 数据网络制式（归并到代际分类）
type NetworkType string

const (
	Network2G      NetworkType = "2G"
	Network3G      NetworkType = "3G"
	NetworkLTE     NetworkType = "LTE"
	Network5G      NetworkType = "5G"
	NetworkUnknown NetworkType = "UNKNOWN"
)

// ParseSimState 解析平台字符串，未知值归 UNKNOWN
func ParseSimState(s string) SimState {
	switch SimState(s) {
	case SimStateReady, SimStateAbsent, SimStatePinRequired, SimStatePukRequired,
		SimStateNetworkLocked, SimStateNotReady, SimStatePermDisabled,
		SimStateCardIOError, SimStateCardRestricted:
		return SimState(s)
	default:
		return SimStateUnknown
	}
}

// ParseNetworkType 解析平台字符串，未知值归 UNKNOWN
func ParseNetworkType(s string) NetworkType {
	switch NetworkType(s) {
	case Network2G, Network3G, NetworkLTE, Network5G:
		return NetworkType(s)
	default:
		return NetworkUnknown
	}
}

// SimRecord 一次读取观察到的单个 SIM 槽位。
// 每次读取重新构造，不作为设备状态的持久真相（设备状态可能随时在应用之外变化）。
type SimRecord struct {
	SlotNumber  int         `json:"slot_number"`
	CarrierName string      `json:"carrier_name,omitempty"`
	SimState    SimState    `json:"sim_state"`
	NetworkType NetworkType `json:"network_type,omitempty"`
	// Mock 标记该记录来自降级兜底数据而非真实设备
	Mock bool `json:"mock,omitempty"`
}
