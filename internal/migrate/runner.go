// Package migrate 执行 db/migrations 下的 SQL 迁移。
// 文件约定：NNNN_name_up.sql，按版本号升序应用，已应用版本记录在
// sim_schema_migrations 表中（含迁移名，便于排查线上 schema 演进历史）。
package migrate

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const versionTable = "sim_schema_migrations"

// Migration 一个待应用的迁移文件
type Migration struct {
	Version int64
	Name    string
	Path    string
}

// Runner 迁移执行器
type Runner struct {
	Dir string
	Log *zap.Logger
}

// ensureVersionTable 保证版本表存在
func ensureVersionTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+versionTable+` (
        version BIGINT PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`)
	return err
}

// appliedVersions 已应用版本集合
func appliedVersions(ctx context.Context, db *pgxpool.Pool) (map[int64]bool, error) {
	rows, err := db.Query(ctx, `SELECT version FROM `+versionTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// parseMigrationName 从 "0001_init_up.sql" 解析出版本 1 与名称 "init"
func parseMigrationName(filename string) (Migration, bool) {
	base := strings.TrimSuffix(filename, "_up.sql")
	if base == filename {
		return Migration{}, false
	}
	verStr, name, found := strings.Cut(base, "_")
	if !found {
		name = ""
		verStr = base
	}
	version, err := strconv.ParseInt(verStr, 10, 64)
	if err != nil {
		return Migration{}, false
	}
	return Migration{Version: version, Name: name}, true
}

// discover 扫描目录下的向上迁移，按版本升序返回
func (r Runner) discover(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, ok := parseMigrationName(entry.Name())
		if !ok {
			continue
		}
		m.Path = entry.Name()
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Pending 返回尚未应用的迁移
func (r Runner) Pending(ctx context.Context, db *pgxpool.Pool) ([]Migration, error) {
	if r.Dir == "" {
		return nil, errors.New("migrations dir is empty")
	}
	if err := ensureVersionTable(ctx, db); err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	all, err := r.discover(os.DirFS(r.Dir))
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range all {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Up 依次应用全部未应用的迁移，每个迁移在独立事务中执行
func (r Runner) Up(ctx context.Context, db *pgxpool.Pool) error {
	pending, err := r.Pending(ctx, db)
	if err != nil {
		return err
	}

	fsys := os.DirFS(r.Dir)
	for _, m := range pending {
		content, err := fs.ReadFile(fsys, m.Path)
		if err != nil {
			return err
		}
		if err := applyOne(ctx, db, m, string(content)); err != nil {
			return err
		}
		if r.Log != nil {
			r.Log.Info("migration applied",
				zap.Int64("version", m.Version),
				zap.String("name", m.Name))
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *pgxpool.Pool, m Migration, sql string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO `+versionTable+`(version, name, applied_at) VALUES($1, $2, $3)`,
		m.Version, m.Name, time.Now()); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
