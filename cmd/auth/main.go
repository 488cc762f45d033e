package main

import (
	"Booklet/internal/api/config"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/wire"
	log "log/slog"
)

func main() {
	// 加载配置
	if err := config.LoadConfig("auth"); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()

	if cfg.JWT.Secret == "" {
		log.Error("Fatal error: jwt.secret is empty")
		panic("jwt.secret is empty")
	}

	// Redis 连接，保存已注销的令牌
	if err := redis.InitRedis(cfg.Redis); err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}
	defer func() {
		_ = redis.Close()
	}()

	// 依赖注入
	app, err := wire.BuildAuth(cfg)
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
