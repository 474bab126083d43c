package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/app/login/validation"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/metrics"
	"login-gateway/internal/pkg/notify"
	"login-gateway/internal/pkg/response"
	"login-gateway/internal/pkg/trace"
	"login-gateway/internal/pkg/xerrors"
)

// EventPublisher 登录事件发布能力
type EventPublisher interface {
	PublishLoginEvent(ctx context.Context, event notify.LoginEvent) error
}

// LoginHandler echo 传输层适配：解码请求体，调用 LoginController，渲染响应
type LoginHandler struct {
	controller *LoginController
	metrics    *metrics.LoginMetrics
	events     EventPublisher
	logger     log.Logger
}

// NewLoginHandler 创建 LoginHandler。loginMetrics、events 可以为 nil
func NewLoginHandler(controller *LoginController, loginMetrics *metrics.LoginMetrics, events EventPublisher, logger log.Logger) *LoginHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &LoginHandler{
		controller: controller,
		metrics:    loginMetrics,
		events:     events,
		logger:     logger.With("component", "login_handler"),
	}
}

// Register 注册路由
func (h *LoginHandler) Register(g *echo.Group) {
	g.POST("/login", h.Login)
}

// Login 邮箱密码登录
// @Summary 用户登录
// @Description 校验 email、password 后调用认证器；凭据错误返回 401 且没有响应体
// @Tags 认证
// @Accept json
// @Produce json
// @Param login body map[string]string true "登录请求参数 {email, password}"
// @Success 200 {object} response.ResponseResult[domain.LoginResult] "登录成功"
// @Failure 400 {object} response.ResponseResult[any] "缺少参数或参数格式错误"
// @Failure 401 "认证失败"
// @Failure 500 {object} response.ResponseResult[any] "服务器错误"
// @Router /auth/login [post]
func (h *LoginHandler) Login(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	payload, err := decodePayload(c.Request().Body)
	if err != nil {
		h.logger.InfoContext(ctx, "解析登录请求体失败", "error", err)
		h.finish(ctx, payload, http.StatusBadRequest, start)
		return response.EchoBadRequest(c, err.Error())
	}

	resp, err := h.controller.Handle(ctx, domain.HTTPRequest{Body: payload})
	if err != nil {
		// 校验器故障交给错误中间件渲染
		h.finish(ctx, payload, http.StatusInternalServerError, start)
		return err
	}

	h.finish(ctx, payload, resp.StatusCode, start)
	return response.Write(c, resp)
}

// finish 记录指标并发布登录事件，失败只记日志
func (h *LoginHandler) finish(ctx context.Context, payload domain.Payload, statusCode int, start time.Time) {
	outcome := metrics.OutcomeForStatus(statusCode)
	h.metrics.ObserveLogin("", outcome, time.Since(start))

	if h.events == nil {
		return
	}
	email, _ := payload[validation.FieldEmail].(string)
	event := notify.LoginEvent{
		Email:      email,
		Outcome:    outcome,
		StatusCode: statusCode,
		TraceID:    trace.GetTraceID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if err := h.events.PublishLoginEvent(ctx, event); err != nil {
		log.LogAppError(ctx, h.logger, "发布登录事件失败",
			xerrors.NewWithError(xerrors.CodeMessageQueueError, "publish login event", err))
	}
}

// decodePayload 把 JSON 对象解码成 Payload；空请求体视为空对象
func decodePayload(body io.Reader) (domain.Payload, error) {
	var payload domain.Payload
	if body == nil {
		return domain.Payload{}, nil
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Payload{}, nil
		}
		return nil, err
	}
	if payload == nil {
		payload = domain.Payload{}
	}
	return payload, nil
}
