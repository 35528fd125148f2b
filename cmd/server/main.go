package main

import (
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/app/bootstrap"
	cfgpkg "github.com/simvista/sim-server/internal/config"
	"github.com/simvista/sim-server/internal/logging"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 启动
	if err := bootstrap.Run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}
