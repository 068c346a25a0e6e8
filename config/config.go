// Package config 配置管理
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"terminal-terrace/engtheory/internal/logging"
)

// EnvPrefix 环境变量前缀，ENGTHEORY_DATABASE_HOST 对应 database.host
const EnvPrefix = "ENGTHEORY_"

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// Load 加载配置：.env -> 配置文件 -> 环境变量（后者覆盖前者）
func Load(configPath string) (*AppConfig, error) {
	// 首先加载 .env 文件到环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warnf("无法加载 .env 文件: %v", err)
	}

	kk := koanf.New(".")
	if configPath != "" {
		if err := kk.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	// 加载环境变量（会覆盖配置文件）
	if err := kk.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := kk.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	applyDefaults(conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	k = kk
	return conf, nil
}

// MustLoad 加载全局配置，失败则退出
func MustLoad(configPath string) *AppConfig {
	once.Do(func() {
		conf, err := Load(configPath)
		if err != nil {
			logging.L.Fatal("配置加载失败", "err", err)
		}
		Conf = conf
	})
	return Conf
}

// Reload 重新加载全局配置
func Reload(configPath string) error {
	conf, err := Load(configPath)
	if err != nil {
		return err
	}
	Conf = conf
	return nil
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		return ""
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		return 0
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		return false
	}
	return k.Bool(key)
}

// Validate 校验必填配置
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		return fmt.Errorf("sqlite 需要配置 database.path")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret 不能为空")
	}
	return nil
}

// envKey ENGTHEORY_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, found := strings.Cut(s, "_")
	if !found {
		return section
	}
	return section + "." + rest
}

func applyDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	// 转换时间单位
	c.Server.ReadTimeout = c.Server.ReadTimeout * time.Second
	c.Server.WriteTimeout = c.Server.WriteTimeout * time.Second

	if c.Redis.Enabled && len(c.Redis.Addrs) == 0 {
		c.Redis.Addrs = []string{"localhost:6379"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.JWT.ExpireTime == 0 {
		c.JWT.ExpireTime = 24
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "engtheory"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
