package main

import (
	"Booklet/internal/api/config"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/wire"
	log "log/slog"
)

func main() {
	// 加载配置
	if err := config.LoadConfig("gateway"); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()

	if len(cfg.Gateway.Services) == 0 {
		log.Warn("no downstream services configured, every request will be rejected")
	}

	// 依赖注入
	app, err := wire.BuildGateway(cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}

	if err = wire.Run(app, cfg.Server.Port); err != nil {
		log.Error("App exited with error", "err", err)
		return
	}
	log.Info("App exited successfully.")
}
