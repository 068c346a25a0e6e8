package config

import "time"

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"`          // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`  // 秒
	WriteTimeout time.Duration `koanf:"write_timeout"` // 秒
	CORSOrigins  []string      `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres, sqlite
	Path         string `koanf:"path"`   // sqlite 文件路径
	DSN          string `koanf:"dsn"`    // postgres 完整连接串，非空时覆盖分项
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

// RedisConfig 未启用时令牌吊销使用进程内缓存
type RedisConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Addrs    []string `koanf:"addrs"` // host:port，多个地址为集群
	Password string   `koanf:"password"`
	DB       int      `koanf:"db"`
	PoolSize int      `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	Issuer     string `koanf:"issuer"`
	ExpireTime int    `koanf:"expire_time"` // 小时
}
