package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// 覆盖配置的环境变量
const (
	EnvKratosPublicURL = "KRATOS_PUBLIC_URL"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvNATSURL         = "NATS_URL"
)

// RegisterFlags 注册可覆盖配置的命令行参数，默认值取自 Default()
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("environment", d.Environment, "运行环境 (development|production|test)")
	fs.String("log.level", d.Log.Level, "日志级别 (debug|info|warn|error)")
	fs.String("server.addr", d.Server.Addr, "API 监听地址")
	fs.Duration("server.shutdown_timeout", d.Server.ShutdownTimeout, "优雅关闭超时")
	fs.String("metrics.addr", d.Metrics.Addr, "指标服务监听地址，为空则不启动")
	fs.String("auth.driver", d.Auth.Driver, "认证驱动 (kratos|local)")
	fs.StringSlice("auth.allowed_email_domains", d.Auth.AllowedEmailDomains, "允许登录的邮箱域名，为空不限制")
	fs.String("kratos.public_url", d.Kratos.PublicURL, "Kratos public API 地址")
	fs.Duration("kratos.timeout", d.Kratos.Timeout, "单次 Kratos 登录的超时")
	fs.String("local.store", d.Local.Store, "本地凭据存储 (static|redis)")
	fs.String("redis.addr", d.Redis.Addr, "Redis 地址")
	fs.Int("redis.db", d.Redis.DB, "Redis DB")
	fs.String("nats.url", d.NATS.URL, "NATS 地址，为空则不发布登录事件")
	fs.String("nats.subject", d.NATS.Subject, "登录事件 subject")
}

// Load 加载配置，优先级：环境变量 > 命令行参数 > 配置文件 > 默认值。
// path 为空时跳过配置文件，fs 为 nil 时跳过命令行参数。
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件 %s 失败: %w", path, err)
		}
	}
	if fs != nil {
		// 未显式设置的参数不会覆盖配置文件中已有的值
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, fmt.Errorf("加载命令行参数失败: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	overrideWithEnv(&cfg)
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideWithEnv 敏感或随部署变化的配置项用环境变量覆盖
func overrideWithEnv(cfg *Config) {
	cfg.Kratos.PublicURL = GetEnvOrDefault(EnvKratosPublicURL, cfg.Kratos.PublicURL)
	cfg.Redis.Password = GetEnvOrDefault(EnvRedisPassword, cfg.Redis.Password)
	cfg.NATS.URL = GetEnvOrDefault(EnvNATSURL, cfg.NATS.URL)
}

func normalize(cfg *Config) {
	cfg.Auth.Driver = strings.ToLower(strings.TrimSpace(cfg.Auth.Driver))
	cfg.Local.Store = strings.ToLower(strings.TrimSpace(cfg.Local.Store))
	cfg.Kratos.PublicURL = strings.TrimRight(cfg.Kratos.PublicURL, "/")
}

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// SanitizeConfigForLog 清理配置中的敏感信息，用于日志输出
func SanitizeConfigForLog(config map[string]any) map[string]any {
	sanitized := make(map[string]any, len(config))
	for k, v := range config {
		if isSensitiveKey(k) {
			sanitized[k] = "***REDACTED***"
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "secret", "token", "private", "api_key",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
