package controller

import (
	"context"
	"fmt"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/app/login/validation"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/response"
)

// LoginController 登录编排：校验 -> 认证 -> 映射响应。
// 无状态，可被多个请求并发使用。
type LoginController struct {
	authenticator domain.Authenticator
	validator     domain.Validator
	logger        log.Logger
}

// NewLoginController 构造函数，依赖在组装时注入；logger 为 nil 时使用全局 logger
func NewLoginController(authenticator domain.Authenticator, validator domain.Validator, logger log.Logger) *LoginController {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &LoginController{
		authenticator: authenticator,
		validator:     validator,
		logger:        logger.With("component", "login_controller"),
	}
}

// Handle 处理一次登录请求。
//
// 返回的 error 只来自校验阶段的故障，调用方负责处理；
// 认证器故障被映射为 500 响应，不会作为 error 返回。
func (lc *LoginController) Handle(ctx context.Context, req domain.HTTPRequest) (response.HTTPResponse, error) {
	appErr, err := lc.validator.Validate(req.Body)
	if err != nil {
		return response.HTTPResponse{}, fmt.Errorf("validate login payload: %w", err)
	}
	if appErr != nil {
		lc.logger.InfoContext(ctx, "登录参数校验失败", "field", appErr.Field(), "code", appErr.Code.ToInt())
		return response.BadRequest(appErr), nil
	}

	credentials := credentialsFrom(req.Body)
	result, err := lc.authenticator.Auth(ctx, credentials)
	if err != nil {
		lc.logger.ErrorContext(ctx, "认证器故障", "email", credentials.Email, "error", err)
		return response.ServerError(err), nil
	}

	token, ok := result.Token()
	if !ok {
		lc.logger.WarnContext(ctx, "认证被拒绝", "email", credentials.Email)
		return response.Unauthorized(), nil
	}

	lc.logger.InfoContext(ctx, "登录成功", "email", credentials.Email)
	return response.OK(domain.LoginResult{AccessToken: token}), nil
}

// credentialsFrom 从已校验的载荷中原样取出凭据
func credentialsFrom(payload domain.Payload) domain.Credentials {
	return domain.Credentials{
		Email:    stringField(payload, validation.FieldEmail),
		Password: stringField(payload, validation.FieldPassword),
	}
}

func stringField(payload domain.Payload, field string) string {
	switch v := payload[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
