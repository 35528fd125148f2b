package carrier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTableMatch 测试运营商名匹配规则
func TestTableMatch(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		carrier  string
		expected string
	}{
		{"AT&T精确", "AT&T", "att"},
		{"AT&T大小写", "at&t wireless", "att"},
		{"Verizon", "Verizon Wireless", "verizon"},
		{"T-Mobile", "T-Mobile US", "tmobile"},
		{"TMobile无连字符", "TMobile", "tmobile"},
		{"未知运营商走通用档案", "Rakuten Mobile", "generic"},
		{"空名走通用档案", "", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Match(tt.carrier).Name)
		})
	}
}

// TestLoadTable 测试档案文件加载与缺省回填
func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carriers.yaml")
	content := `
profiles:
  - name: docomo
    fragments: ["docomo"]
    latency: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	p := table.Match("NTT Docomo")
	assert.Equal(t, "docomo", p.Name)
	assert.Equal(t, 250*time.Millisecond, p.Latency)

	// generic 未配置时用默认值回填
	assert.Equal(t, "generic", table.Match("unknown").Name)
	assert.Equal(t, time.Second, table.Generic.Latency)
}

// TestLoadTableMissingFile 测试文件缺失报错
func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable("/nonexistent/carriers.yaml")
	assert.Error(t, err)
}
