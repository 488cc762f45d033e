// Package testutil 提供测试用的内存数据库与 Redis
package testutil

import (
	"Booklet/internal/api/config"
	"Booklet/internal/model"
	"Booklet/internal/pkg/database"
	"Booklet/internal/pkg/redis"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB 内存 SQLite，单连接保证同一个库，并建好全部表
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db,
		&model.Category{}, &model.SubCategory{}, &model.Tag{},
		&model.Blog{}, &model.BlogTag{}, &model.BlogView{},
		&model.Follow{},
	))
	return db
}

// NewTestRedis 启动 miniredis 并替换全局客户端
func NewTestRedis(t testing.TB) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	prev := redis.Rdb
	redis.Rdb = redis.NewClient(config.RedisConfig{Addr: mr.Addr(), DisableIdentity: true})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = prev
	})
	return mr
}
