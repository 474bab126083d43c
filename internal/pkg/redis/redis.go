package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"login-gateway/internal/pkg/metrics"
)

// DefaultDialTimeout 建连与启动 Ping 的默认超时
const DefaultDialTimeout = 5 * time.Second

// Config Redis 配置
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Commander 本包用到的 go-redis 命令子集，*redis.Client 满足该接口
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Client Redis 客户端封装，每个操作都记录资源指标
type Client struct {
	cmd     Commander
	service string
	metrics *metrics.ResourceMetrics
}

// NewClient 创建 Redis 客户端并 Ping 一次，连接失败时返回错误
func NewClient(ctx context.Context, cfg Config, service string) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	c := NewClientFrom(rdb, service)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败 (%s): %w", cfg.Addr, err)
	}
	return c, nil
}

// NewClientFrom 包装已有的命令执行器
func NewClientFrom(cmd Commander, service string) *Client {
	if service == "" {
		service = metrics.GetServiceName()
	}
	return &Client{
		cmd:     cmd,
		service: service,
		metrics: metrics.DefaultResourceMetrics,
	}
}

// WithMetrics 替换指标收集器，返回自身
func (c *Client) WithMetrics(m *metrics.ResourceMetrics) *Client {
	c.metrics = m
	return c
}

// GetString 获取字符串值，key 不存在时返回 redis.Nil
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	start := time.Now()
	result, err := c.cmd.Get(ctx, key).Result()
	c.record("GET", err, time.Since(start))
	return result, err
}

// SetWithTTL 设置键值对，ttl 为 0 表示不过期
func (c *Client) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.cmd.Set(ctx, key, value, ttl).Err()
	c.record("SET", err, time.Since(start))
	return err
}

// Ping 检查连接
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.cmd.Ping(ctx).Err()
	c.record("PING", err, time.Since(start))
	return err
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.cmd.Close()
}

// record 记录操作指标，redis.Nil 算作成功
func (c *Client) record(operation string, err error, duration time.Duration) {
	c.metrics.RecordRedisOperation(operation, err == nil || errors.Is(err, redis.Nil), duration, c.service)
	if err != nil {
		c.metrics.RecordRedisError(errorType(err), c.service)
	}
}

func errorType(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, redis.Nil):
		return "nil"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &netErr):
		return "connection_error"
	default:
		return "operation_error"
	}
}
