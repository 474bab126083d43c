package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	natsgo "github.com/nats-io/nats.go"

	"login-gateway/internal/app/login/adapter"
	"login-gateway/internal/app/login/controller"
	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/app/login/validation"
	"login-gateway/internal/middleware"
	"login-gateway/internal/pkg/config"
	"login-gateway/internal/pkg/i18n"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/metrics"
	"login-gateway/internal/pkg/nats"
	"login-gateway/internal/pkg/notify"
	"login-gateway/internal/pkg/redis"
	"login-gateway/internal/pkg/trace"
	"login-gateway/internal/pkg/validator"
	"login-gateway/internal/pkg/xerrors"
)

// application 组装好的服务，Close 释放外部连接
type application struct {
	echo           *echo.Echo
	metricsHandler http.Handler
	natsHealth     *nats.HealthChecker
	closers        []func() error
}

// newApplication 按配置组装依赖：认证器、校验链、事件发布、HTTP 路由
func newApplication(ctx context.Context, cfg *config.Config, logger log.Logger) (*application, error) {
	app := &application{metricsHandler: metrics.Handler()}

	authenticator, err := app.buildAuthenticator(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	events, err := app.buildPublisher(cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var extra []domain.Validator
	if len(cfg.Auth.AllowedEmailDomains) > 0 {
		extra = append(extra, validation.NewEmailDomainValidator(validation.FieldEmail, cfg.Auth.AllowedEmailDomains...))
	}
	loginValidator := validation.NewLoginValidator(validator.NewEmailValidationAdapter(), extra...)

	loginController := controller.NewLoginController(authenticator, loginValidator, logger)
	loginHandler := controller.NewLoginHandler(loginController, metrics.DefaultLoginMetrics, events, logger)

	app.echo = newEcho(cfg, logger, loginHandler, app.natsHealth)
	return app, nil
}

func (a *application) buildAuthenticator(ctx context.Context, cfg *config.Config, logger log.Logger) (domain.Authenticator, error) {
	switch cfg.Auth.Driver {
	case config.DriverKratos:
		logger.Info("使用 Kratos 认证", "public_url", cfg.Kratos.PublicURL)
		return adapter.NewKratosAuthenticator(cfg.Kratos.PublicURL, cfg.Kratos.Timeout, nil, logger), nil

	case config.DriverLocal:
		store, err := a.buildCredentialStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return adapter.NewLocalAuthenticator(store, adapter.NewArgon2idHasher(), logger), nil

	default:
		return nil, fmt.Errorf("unknown auth driver %q", cfg.Auth.Driver)
	}
}

func (a *application) buildCredentialStore(ctx context.Context, cfg *config.Config, logger log.Logger) (adapter.CredentialStore, error) {
	if cfg.Local.Store == config.StoreRedis {
		client, err := redis.NewClient(ctx, redisConfig(cfg), "")
		if err != nil {
			return nil, xerrors.NewExternalServiceError("redis", err)
		}
		a.closers = append(a.closers, client.Close)
		logger.Info("使用 Redis 凭据存储", "addr", cfg.Redis.Addr, "key_prefix", cfg.Local.KeyPrefix)
		return adapter.NewRedisCredentialStore(client, cfg.Local.KeyPrefix), nil
	}

	hashes := make(map[string]string, len(cfg.Local.Users))
	for _, u := range cfg.Local.Users {
		hashes[u.Email] = u.PasswordHash
	}
	store := adapter.NewStaticCredentialStore(hashes)
	logger.Info("使用静态凭据存储", "users", store.Len())
	return store, nil
}

// buildPublisher nats.url 为空时返回不连接的发布器
func (a *application) buildPublisher(cfg *config.Config, logger log.Logger) (*notify.Publisher, error) {
	if cfg.NATS.URL == "" {
		logger.Info("未配置 NATS，登录事件不发布")
		return notify.NewPublisher(nil, cfg.NATS.Subject), nil
	}

	conn, err := natsgo.Connect(cfg.NATS.URL,
		natsgo.Name("login-gateway"),
		natsgo.MaxReconnects(10),
		natsgo.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, xerrors.NewExternalServiceError("nats", fmt.Errorf("connect to %s: %w", cfg.NATS.URL, err))
	}
	a.closers = append(a.closers, func() error {
		return conn.Drain()
	})
	a.natsHealth = nats.NewHealthChecker(conn, cfg.NATS.HealthInterval)
	logger.Info("已连接 NATS", "url", conn.ConnectedUrl(), "subject", cfg.NATS.Subject)
	return notify.NewPublisher(conn, cfg.NATS.Subject), nil
}

// Close 按创建的逆序释放资源
func (a *application) Close() error {
	if a.natsHealth != nil {
		a.natsHealth.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func redisConfig(cfg *config.Config) redis.Config {
	return redis.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	}
}

// newEcho 注册中间件和路由。
// recovery 与错误中间件必须紧贴处理器，外层的日志和指标才能拿到最终状态码。
func newEcho(cfg *config.Config, logger log.Logger, loginHandler *controller.LoginHandler, natsHealth *nats.HealthChecker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(trace.Middleware())
	e.Use(i18n.Middleware())
	e.Use(middleware.LoggingMiddleware(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	e.Use(middleware.SecurityHeadersMiddleware())
	e.Use(middleware.RecoveryMiddleware(logger))
	e.Use(middleware.ErrorMiddleware(logger, metrics.DefaultErrorMetrics))

	e.GET("/health", healthHandler(cfg.Auth.Driver, natsHealth))
	loginHandler.Register(e.Group("/api/v1/auth"))

	return e
}

// healthStatus GET /health 的响应体
type healthStatus struct {
	Status string `json:"status"`
	Driver string `json:"driver"`
	NATS   string `json:"nats"`
}

// healthHandler NATS 断开时仍返回 200：登录不依赖事件发布
func healthHandler(driver string, natsHealth *nats.HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := healthStatus{Status: "ok", Driver: driver, NATS: "disabled"}
		if natsHealth != nil {
			status.NATS = natsHealth.Status()
		}
		return c.JSON(http.StatusOK, status)
	}
}
