package models

import (
	"time"
)

// 注意：
// - 保持与 db/migrations/full_schema.sql 完全对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// SwitchEvent 映射 switch_events 表。
// IsSuccessful 创建时默认 true，由同步任务在结束时写入最终值（可重复写，单字段幂等）。
type SwitchEvent struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Timestamp    time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
	OldSim       string    `gorm:"column:old_sim;type:text;not null" json:"old_sim"`
	NewSim       string    `gorm:"column:new_sim;type:text;not null" json:"new_sim"`
	OldSimSlot   int       `gorm:"column:old_sim_slot;not null" json:"old_sim_slot"`
	NewSimSlot   int       `gorm:"column:new_sim_slot;not null" json:"new_sim_slot"`
	SwitchReason *string   `gorm:"column:switch_reason;type:text" json:"switch_reason,omitempty"`
	IsSuccessful bool      `gorm:"column:is_successful;not null;default:true" json:"is_successful"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SwitchEvent) TableName() string { return "switch_events" }

// Plan 映射 telecom_plans 表（远端目录的本地镜像）。
// ID 为远端分配的不透明字符串（plan_<n>），非自增。
// SyncedAt 记录最近一次刷新写入时间，保留窗口清理以此为准。
type Plan struct {
	ID             string    `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;type:text;not null" json:"name"`
	Price          float64   `gorm:"column:price;not null" json:"price"`
	DataAllowance  string    `gorm:"column:data_allowance;type:text" json:"data"`
	CarrierName    string    `gorm:"column:carrier_name;type:text;not null;index" json:"carrier_name"`
	PlanType       string    `gorm:"column:plan_type;type:text" json:"plan_type"`
	ContractLength int       `gorm:"column:contract_length;not null;default:0" json:"contract_length"`
	Features       string    `gorm:"column:features;type:text" json:"features"`
	SyncedAt       time.Time `gorm:"column:synced_at;not null;index" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Plan) TableName() string { return "telecom_plans" }

// SimCard 映射 sim_cards 表（远端 /simcards 资源）
type SimCard struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SlotNumber  int       `gorm:"column:slot_number;not null" json:"slot_number"`
	CarrierName *string   `gorm:"column:carrier_name;type:text" json:"carrier_name"`
	SimState    string    `gorm:"column:sim_state;type:text;not null;default:UNKNOWN" json:"sim_state"`
	NetworkType *string   `gorm:"column:network_type;type:text" json:"network_type"`
	ICCID       *string   `gorm:"column:iccid;type:text" json:"iccid"`
	IMSI        *string   `gorm:"column:imsi;type:text" json:"imsi"`
	PhoneNumber *string   `gorm:"column:phone_number;type:text" json:"phone_number"`
	CountryCode *string   `gorm:"column:country_code;type:text" json:"country_code"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SimCard) TableName() string { return "sim_cards" }

// 同步任务状态
const (
	SyncJobPending = int32(0)
	SyncJobDone    = int32(2)
	SyncJobFailed  = int32(3)
)

// SyncJob 映射 sync_jobs 表（每个切换事件入队一条）。
// EventID 只作为回引 id 保存，任务生命周期与事件互不耦合。
type SyncJob struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID     int64      `gorm:"column:event_id;not null;index" json:"event_id"`
	SlotNumber  int        `gorm:"column:slot_number;not null" json:"slot_number"`
	CarrierName string     `gorm:"column:carrier_name;type:text;not null" json:"carrier_name"`
	Status      int32      `gorm:"column:status;not null;default:0;index" json:"status"`
	RetryCount  int32      `gorm:"column:retry_count;not null;default:0" json:"retry_count"`
	NotBefore   *time.Time `gorm:"column:not_before" json:"not_before,omitempty"`
	LastError   *string    `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SyncJob) TableName() string { return "sync_jobs" }

// All 返回全部模型，供 AutoMigrate 与测试建表使用
func All() []any {
	return []any{&SwitchEvent{}, &Plan{}, &SimCard{}, &SyncJob{}}
}
