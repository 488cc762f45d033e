package main

import (
	"Booklet/internal/api/config"
	"Booklet/internal/pkg/database"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/wire"
	log "log/slog"
)

func main() {
	// 加载配置
	if err := config.LoadConfig("blogs"); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		panic(err)
	}

	// Redis 连接
	if err = redis.InitRedis(cfg.Redis); err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}
	defer func() {
		_ = redis.Close()
	}()

	// 依赖注入
	app, err := wire.BuildBlogs(db, cfg)
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
