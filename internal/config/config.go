// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称
	Host     string `toml:"host"`     // 监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 监听端口，如 8000
	Mode     string `toml:"mode"`     // 运行模式：dev / release
	ForceTLS bool   `toml:"forceTLS"` // 是否启用 HTTP -> HTTPS 重定向
	Locale   string `toml:"locale"`   // 参数校验提示语言：en / zh
}

// DatabaseConfig 数据库连接配置
// Driver 可选 mysql / postgres / sqlite
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SSLMode      string `toml:"sslMode"` // 仅 postgres 使用
	Path         string `toml:"path"`    // 仅 sqlite 使用，文件路径或 file::memory:
	MaxOpenConns int    `toml:"maxOpenConns"`
	MaxIdleConns int    `toml:"maxIdleConns"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
	Enabled  bool   `toml:"enabled"` // 关闭时限流与幂等中间件不生效，关系缓存退化为直读数据库
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // MB
	MaxBackups int    `toml:"maxBackups"` // 个
	MaxAge     int    `toml:"maxAge"`     // 天
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig 事件投递配置
type KafkaConfig struct {
	EventMode  string        `toml:"eventMode"`  // "channel" 进程内投递 或 "kafka"
	HostPort   string        `toml:"hostPort"`   // 如 "localhost:9092"
	EventTopic string        `toml:"eventTopic"` // 消息事件主题
	Partition  int           `toml:"partition"`  // 创建主题时的分区数
	Timeout    time.Duration `toml:"timeout"`    // 写超时（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // 分钟
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // 小时
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023，多实例部署时每台唯一
}

// MessageConfig 私信相关配置
type MessageConfig struct {
	SendRateLimit    int `toml:"sendRateLimit"`    // 窗口内允许的发送次数，0 表示不限流
	SendRateWindow   int `toml:"sendRateWindow"`   // 限流窗口（秒）
	IdempotencyTTL   int `toml:"idempotencyTTL"`   // 幂等键保留时间（秒）
	DefaultPageLimit int `toml:"defaultPageLimit"` // 会话默认分页条数
	MaxPageLimit     int `toml:"maxPageLimit"`     // 会话最大分页条数
}

// Config 应用程序总配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	MessageConfig   `toml:"messageConfig"`
}

var (
	config     *Config
	configOnce sync.Once
)

// 候选配置文件路径，优先加载本地配置
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 从候选路径中加载第一个可用的配置文件
func LoadConfig(cfg *Config) error {
	for _, path := range searchPaths {
		if _, err := toml.DecodeFile(path, cfg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadFile 从指定路径加载配置并补齐默认值
func LoadFile(path string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// GetConfig 获取全局配置实例，首次调用时加载
// 找不到配置文件时使用默认值
func GetConfig() *Config {
	configOnce.Do(func() {
		config = new(Config)
		_ = LoadConfig(config)
		config.applyDefaults()
	})
	return config
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "wanderlog"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.Driver == "sqlite" && c.Path == "" {
		c.Path = "wanderlog.db"
	}
	if c.LogPath == "" {
		c.LogPath = "logs"
	}
	if c.EventMode == "" {
		c.EventMode = "channel"
	}
	if c.EventTopic == "" {
		c.EventTopic = "wanderlog.messages"
	}
	if c.Partition == 0 {
		c.Partition = 1
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 3
	}
	if c.Secret == "" {
		c.Secret = "wanderlog-dev-secret"
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60
	}
	if c.RefreshTokenExpiry == 0 {
		c.RefreshTokenExpiry = 168
	}
	if c.SendRateWindow == 0 {
		c.SendRateWindow = 60
	}
	if c.IdempotencyTTL == 0 {
		c.IdempotencyTTL = 600
	}
	if c.DefaultPageLimit == 0 {
		c.DefaultPageLimit = 50
	}
	if c.MaxPageLimit == 0 {
		c.MaxPageLimit = 100
	}
}
