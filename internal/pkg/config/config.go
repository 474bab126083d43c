package config

import (
	"errors"
	"fmt"
	"time"

	"login-gateway/internal/pkg/validator"
)

// 认证驱动与凭据存储
const (
	DriverKratos = "kratos"
	DriverLocal  = "local"

	StoreStatic = "static"
	StoreRedis  = "redis"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config login-gateway 的全部配置
type Config struct {
	Environment string        `koanf:"environment" validate:"oneof=development production test"`
	Log         LogConfig     `koanf:"log"`
	Server      ServerConfig  `koanf:"server"`
	Metrics     MetricsConfig `koanf:"metrics"`
	Auth        AuthConfig    `koanf:"auth"`
	Kratos      KratosConfig  `koanf:"kratos"`
	Local       LocalConfig   `koanf:"local"`
	Redis       RedisConfig   `koanf:"redis"`
	NATS        NATSConfig    `koanf:"nats"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// MetricsConfig Addr 为空时不启动指标服务
type MetricsConfig struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

type AuthConfig struct {
	Driver              string   `koanf:"driver" validate:"oneof=kratos local"`
	AllowedEmailDomains []string `koanf:"allowed_email_domains" validate:"dive,email_domain"`
}

type KratosConfig struct {
	PublicURL string        `koanf:"public_url" validate:"omitempty,url"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
}

type LocalConfig struct {
	Store     string       `koanf:"store" validate:"oneof=static redis"`
	KeyPrefix string       `koanf:"key_prefix" validate:"key_prefix"`
	Users     []StaticUser `koanf:"users" validate:"dive"`
}

// StaticUser 静态凭据，PasswordHash 由 hash-password 命令生成
type StaticUser struct {
	Email        string `koanf:"email" validate:"required,email"`
	PasswordHash string `koanf:"password_hash" validate:"required,argon2id_phc"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr" validate:"omitempty,hostname_port"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db" validate:"gte=0,lte=15"`
	DialTimeout time.Duration `koanf:"dial_timeout" validate:"gte=0"`
}

// NATSConfig URL 为空时登录事件不发布
type NATSConfig struct {
	URL            string        `koanf:"url"`
	Subject        string        `koanf:"subject"`
	HealthInterval time.Duration `koanf:"health_interval" validate:"gte=0"`
}

// Default 返回内置默认配置
func Default() Config {
	return Config{
		Environment: "development",
		Log:         LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Auth:    AuthConfig{Driver: DriverKratos},
		Kratos: KratosConfig{
			PublicURL: "http://127.0.0.1:4433",
			Timeout:   10 * time.Second,
		},
		Local: LocalConfig{
			Store:     StoreStatic,
			KeyPrefix: "login:credential:",
		},
		Redis: RedisConfig{
			Addr:        "127.0.0.1:6379",
			DialTimeout: 5 * time.Second,
		},
		NATS: NATSConfig{
			Subject:        "auth.login.attempted",
			HealthInterval: 10 * time.Second,
		},
	}
}

// Validate 先做结构体标签校验，再检查跨字段约束
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, validator.JoinMessages(validator.TranslateValidationErrors(err)))
	}

	switch c.Auth.Driver {
	case DriverKratos:
		if c.Kratos.PublicURL == "" {
			return fmt.Errorf("%w: auth.driver=kratos 时 kratos.public_url 不能为空", ErrInvalidConfig)
		}
	case DriverLocal:
		if c.Local.Store == StoreRedis && c.Redis.Addr == "" {
			return fmt.Errorf("%w: local.store=redis 时 redis.addr 不能为空", ErrInvalidConfig)
		}
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LogFields 扁平化后的配置，敏感项已脱敏，用于启动日志
func (c *Config) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"environment":                c.Environment,
		"log.level":                  c.Log.Level,
		"server.addr":                c.Server.Addr,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout.String(),
		"metrics.addr":               c.Metrics.Addr,
		"auth.driver":                c.Auth.Driver,
		"auth.allowed_email_domains": c.Auth.AllowedEmailDomains,
		"kratos.public_url":          c.Kratos.PublicURL,
		"kratos.timeout":             c.Kratos.Timeout.String(),
		"local.store":                c.Local.Store,
		"local.users":                len(c.Local.Users),
		"redis.addr":                 c.Redis.Addr,
		"redis.password":             c.Redis.Password,
		"redis.db":                   c.Redis.DB,
		"nats.url":                   c.NATS.URL,
		"nats.subject":               c.NATS.Subject,
	})
}
