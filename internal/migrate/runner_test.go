package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMigrationName 文件名解析出版本与名称
func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ok       bool
		version  int64
		migName  string
	}{
		{"标准命名", "0001_init_up.sql", true, 1, "init"},
		{"多段名称", "0002_add_sync_jobs_up.sql", true, 2, "add_sync_jobs"},
		{"缺少名称", "0003_up.sql", true, 3, ""},
		{"向下迁移忽略", "0001_init_down.sql", false, 0, ""},
		{"非数字版本", "abc_init_up.sql", false, 0, ""},
		{"无关文件", "README.md", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := parseMigrationName(tt.filename)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.version, m.Version)
				assert.Equal(t, tt.migName, m.Name)
			}
		})
	}
}

// TestDiscoverSortsByVersion 扫描结果按版本升序
func TestDiscoverSortsByVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0010_later_up.sql", "0002_first_up.sql", "0002_first_down.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644))
	}

	migrations, err := Runner{Dir: dir}.discover(os.DirFS(dir))
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(2), migrations[0].Version)
	assert.Equal(t, "first", migrations[0].Name)
	assert.Equal(t, int64(10), migrations[1].Version)
	assert.Equal(t, "later", migrations[1].Name)
}
