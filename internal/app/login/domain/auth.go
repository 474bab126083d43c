package domain

import (
	"context"

	"login-gateway/internal/pkg/xerrors"
)

// Payload 是解码后的请求体，字段名到任意值的映射。
// 在一次请求的处理过程中只读。
type Payload map[string]any

// HTTPRequest 与传输层无关的请求结构
type HTTPRequest struct {
	Body Payload
}

// Credentials 校验通过后从 Payload 中提取的登录凭据，只在本次请求内使用
type Credentials struct {
	Email    string
	Password string
}

// LoginResult 登录成功时返回给调用方的数据
type LoginResult struct {
	AccessToken string `json:"accessToken"`
}

// AuthResult 一次认证尝试的结果：要么签发了 access token，要么被拒绝。
// 零值表示被拒绝。
type AuthResult struct {
	accessToken string
	granted     bool
}

// Granted 认证通过
func Granted(accessToken string) AuthResult {
	return AuthResult{accessToken: accessToken, granted: true}
}

// Denied 认证被拒绝（凭据错误等），不是故障
func Denied() AuthResult {
	return AuthResult{}
}

// Token 返回 access token；ok 为 false 表示认证被拒绝
func (r AuthResult) Token() (token string, ok bool) {
	return r.accessToken, r.granted
}

// Authenticator 身份认证能力。
// 返回非 nil error 表示故障（网络、存储等），返回 Denied() 表示凭据被拒绝。
// 超时与取消只通过 ctx 传递。
type Authenticator interface {
	Auth(ctx context.Context, credentials Credentials) (AuthResult, error)
}

// EmailValidation 邮箱格式检查能力，error 表示检查器自身故障
type EmailValidation interface {
	IsValid(email string) (bool, error)
}

// Validator 请求载荷校验器。
// 第一个返回值是校验错误（缺少字段 / 字段无效），作为值返回而不是故障；
// 第二个返回值只承载校验器自身的故障。
type Validator interface {
	Validate(input Payload) (*xerrors.AppError, error)
}

// AuthenticatorFunc 让普通函数实现 Authenticator
type AuthenticatorFunc func(ctx context.Context, credentials Credentials) (AuthResult, error)

func (f AuthenticatorFunc) Auth(ctx context.Context, credentials Credentials) (AuthResult, error) {
	return f(ctx, credentials)
}

// ValidatorFunc 让普通函数实现 Validator
type ValidatorFunc func(input Payload) (*xerrors.AppError, error)

func (f ValidatorFunc) Validate(input Payload) (*xerrors.AppError, error) {
	return f(input)
}
