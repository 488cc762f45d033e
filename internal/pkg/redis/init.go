package redis

import (
	"Booklet/internal/api/config"
	"Booklet/internal/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// Rdb 全局客户端，测试中可替换为 miniredis
var Rdb *redis.Client

const pingTimeout = 3 * time.Second

// InitRedis 建立连接并在启动阶段 Ping 一次，失败直接返回
func InitRedis(cfg config.RedisConfig) error {
	rdb := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	Rdb = rdb
	return nil
}

// NewClient 缓存与分布式锁共用的客户端配置
func NewClient(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,

		DisableIdentity: cfg.DisableIdentity,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger())
	return rdb
}

func Close() error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Close()
}
