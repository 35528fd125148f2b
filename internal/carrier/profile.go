// Package carrier 运营商档案：按品牌名片段匹配同步行为。
package carrier

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile 单个运营商的同步档案。
// Latency 模拟该运营商余额接口的调用耗时（真实接入前的占位）。
type Profile struct {
	Name      string        `yaml:"name"`
	Fragments []string      `yaml:"fragments"`
	Latency   time.Duration `yaml:"-"`
}

// UnmarshalYAML 支持 "800ms" 形式的 latency 字段
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name      string   `yaml:"name"`
		Fragments []string `yaml:"fragments"`
		Latency   string   `yaml:"latency"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.Fragments = raw.Fragments
	if raw.Latency != "" {
		d, err := time.ParseDuration(raw.Latency)
		if err != nil {
			return fmt.Errorf("parse latency %q: %w", raw.Latency, err)
		}
		p.Latency = d
	}
	return nil
}

// Table 档案表。匹配规则：运营商显示名与任一片段做大小写不敏感的子串匹配，
// 无命中时使用 Generic 通用档案。
type Table struct {
	Profiles []Profile `yaml:"profiles"`
	Generic  Profile   `yaml:"generic"`
}

// DefaultTable 返回内置默认档案表
func DefaultTable() *Table {
	return &Table{
		Profiles: []Profile{
			{Name: "att", Fragments: []string{"at&t"}, Latency: 800 * time.Millisecond},
			{Name: "verizon", Fragments: []string{"verizon"}, Latency: 600 * time.Millisecond},
			{Name: "tmobile", Fragments: []string{"t-mobile", "tmobile"}, Latency: 700 * time.Millisecond},
		},
		Generic: Profile{Name: "generic", Latency: 1 * time.Second},
	}
}

// LoadTable 从 YAML 文件加载档案表；缺省字段用默认表补齐
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carrier profiles: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("unmarshal carrier profiles: %w", err)
	}
	if len(t.Profiles) == 0 {
		t.Profiles = DefaultTable().Profiles
	}
	if t.Generic.Name == "" {
		t.Generic = DefaultTable().Generic
	}
	return &t, nil
}

// Match 按显示名匹配档案；无命中返回通用档案
func (t *Table) Match(carrierName string) Profile {
	name := strings.ToLower(carrierName)
	for _, p := range t.Profiles {
		for _, frag := range p.Fragments {
			if frag != "" && strings.Contains(name, strings.ToLower(frag)) {
				return p
			}
		}
	}
	return t.Generic
}
