package telephony

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileState 状态文件结构
type fileState struct {
	Permission struct {
		Granted   bool `yaml:"granted"`
		CanPrompt bool `yaml:"canPrompt"`
	} `yaml:"permission"`
	MultiSubscription bool `yaml:"multiSubscription"`
	Slots             []struct {
		Slot    int    `yaml:"slot"`
		Carrier string `yaml:"carrier"`
		State   string `yaml:"state"`
		Network string `yaml:"network"`
	} `yaml:"slots"`
}

// FilePlatform 文件驱动的平台适配器：电话子系统状态与权限标志来自一个
// YAML 快照文件（由设备侧守护进程维护）。每次调用都重读文件，授权与
// 槽位状态的变化无需重启进程即可生效。
type FilePlatform struct {
	path string
}

// NewFilePlatform 创建文件平台适配器
func NewFilePlatform(path string) *FilePlatform {
	return &FilePlatform{path: path}
}

func (p *FilePlatform) load() (*fileState, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read platform state: %w", err)
	}
	var st fileState
	if err := yaml.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("unmarshal platform state: %w", err)
	}
	return &st, nil
}

// Granted 实现 permission.Source
func (p *FilePlatform) Granted() bool {
	st, err := p.load()
	if err != nil {
		return false
	}
	return st.Permission.Granted
}

// CanPrompt 实现 permission.Source
func (p *FilePlatform) CanPrompt() bool {
	st, err := p.load()
	if err != nil {
		return false
	}
	return st.Permission.CanPrompt
}

// SupportsMultiSubscription 实现 Platform
func (p *FilePlatform) SupportsMultiSubscription() bool {
	st, err := p.load()
	if err != nil {
		return false
	}
	return st.MultiSubscription
}

// Subscriptions 实现 Platform
func (p *FilePlatform) Subscriptions(ctx context.Context) ([]Subscription, error) {
	st, err := p.load()
	if err != nil {
		return nil, err
	}
	subs := make([]Subscription, 0, len(st.Slots))
	for _, s := range st.Slots {
		subs = append(subs, Subscription{
			SlotNumber:  s.Slot,
			CarrierName: s.Carrier,
			State:       ParseSimState(s.State),
			Network:     ParseNetworkType(s.Network),
		})
	}
	return subs, nil
}

// DefaultSubscription 实现 Platform：旧式单槽位查询，取槽位号最小的一条
func (p *FilePlatform) DefaultSubscription(ctx context.Context) (Subscription, error) {
	subs, err := p.Subscriptions(ctx)
	if err != nil {
		return Subscription{}, err
	}
	if len(subs) == 0 {
		return Subscription{}, fmt.Errorf("platform state has no slots")
	}
	min := subs[0]
	for _, s := range subs[1:] {
		if s.SlotNumber < min.SlotNumber {
			min = s
		}
	}
	return min, nil
}
