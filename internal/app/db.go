package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/gorm"

	cfgpkg "github.com/simvista/sim-server/internal/config"
	"github.com/simvista/sim-server/internal/migrate"
	"github.com/simvista/sim-server/internal/storage/gormrepo"
	pgstorage "github.com/simvista/sim-server/internal/storage/pg"
)

// ConnectDBAndMigrate 建立数据库连接并按需执行迁移。
// pgx 池用于迁移与健康检查，业务访问走 gorm（见 OpenGorm）。
func ConnectDBAndMigrate(ctx context.Context, cfg cfgpkg.DatabaseConfig, migrateDir string, log *zap.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgstorage.NewPool(ctx, cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, log)
	if err != nil {
		if log != nil {
			log.Error("db connect error", zap.Error(err))
		}
		return nil, err
	}
	if cfg.AutoMigrate {
		if err = (migrate.Runner{Dir: migrateDir, Log: log}).Up(ctx, dbpool); err != nil {
			if log != nil {
				log.Error("db migrate error", zap.Error(err))
			}
			return dbpool, err
		}
		if log != nil {
			log.Info("db migrations applied")
		}
	}
	return dbpool, nil
}

// OpenGorm 打开业务访问用的 gorm 连接
func OpenGorm(cfg cfgpkg.DatabaseConfig) (*gorm.DB, error) {
	return gormrepo.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}
