package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs/<name>.yaml 加载配置并填充到 Cfg，环境变量 BOOKLET_* 优先
func LoadConfig(name string) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("booklet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, name)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper, name string) {
	v.SetDefault("server.name", name)
	v.SetDefault("server.port", 8080)
	// 空默认值使 BOOKLET_* 环境变量在没有配置文件时也能生效
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("logstash.address", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("identity.assertion_secret", "")
	v.SetDefault("gateway.auth_url", "http://localhost:8083/api/validate-token")
	v.SetDefault("kafka.enable", false)
	v.SetDefault("cron.view_totals_spec", "")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.disable_identity", false)
	v.SetDefault("logstash.index", "logstash-booklet")
	v.SetDefault("jwt.issuer", "Booklet")
	v.SetDefault("jwt.access_expiration", 30)
	v.SetDefault("jwt.refresh_expiration", 1440)
	v.SetDefault("identity.assertion_ttl", 60)
	v.SetDefault("gateway.timeout", 5)
	v.SetDefault("cache.trending_ttl", 60)
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 5)
}
