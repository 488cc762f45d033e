package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Identity IdentityConfig `mapstructure:"identity"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Cron     CronConfig     `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"` // debug | info | warn | error
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`

	// 不发送 CLIENT SETINFO，适用于不支持该命令的 Redis 兼容服务
	DisableIdentity bool `mapstructure:"disable_identity"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// JWTConfig 令牌签发配置，过期时间单位为分钟
type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessExpiration  int    `mapstructure:"access_expiration"`
	RefreshExpiration int    `mapstructure:"refresh_expiration"`
}

// IdentityConfig 网关与下游服务之间的身份断言配置
// AssertionSecret 为空时下游直接信任 X-User-Id
type IdentityConfig struct {
	AssertionSecret string `mapstructure:"assertion_secret"`
	AssertionTTL    int    `mapstructure:"assertion_ttl"`
}

// GatewayConfig 网关路由配置
type GatewayConfig struct {
	AuthURL     string            `mapstructure:"auth_url"`
	Services    map[string]string `mapstructure:"services"`
	PublicPaths []string          `mapstructure:"public_paths"`
	Timeout     int               `mapstructure:"timeout"`
}

// CacheConfig 缓存过期时间，单位秒
type CacheConfig struct {
	TrendingTTL int `mapstructure:"trending_ttl"`
}

type KafkaConfig struct {
	Enable            bool               `mapstructure:"enable"`
	Brokers           []string           `mapstructure:"brokers"`
	Version           string             `mapstructure:"version"`
	ClientID          string             `mapstructure:"client_id"`
	Sasl              SaslConfig         `mapstructure:"sasl"`
	Consumer          ConsumerConfig     `mapstructure:"consumer"`
	BlogViewsConsumer KafkaTopicConsumer `mapstructure:"blog_views_consumer"`
	FollowsConsumer   KafkaTopicConsumer `mapstructure:"follows_consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaTopicConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// CronConfig 定时任务配置，表达式为空则不注册
type CronConfig struct {
	ViewTotalsSpec string `mapstructure:"view_totals_spec"`
}
