package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	ory "github.com/ory/kratos-client-go"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/xerrors"
)

// DefaultKratosTimeout 单次认证（建流程 + 提交）的超时
const DefaultKratosTimeout = 10 * time.Second

var errMissingSessionToken = errors.New("kratos login succeeded without a session token")

// KratosAuthenticator 通过 Kratos native login flow 校验邮箱密码
type KratosAuthenticator struct {
	client  *ory.APIClient
	timeout time.Duration
	logger  log.Logger
}

// NewKratosAuthenticator 创建 Kratos 认证器。httpClient 为 nil 时使用 http.DefaultClient
func NewKratosAuthenticator(publicURL string, timeout time.Duration, httpClient *http.Client, logger log.Logger) *KratosAuthenticator {
	cfg := ory.NewConfiguration()
	cfg.Servers = []ory.ServerConfiguration{
		{
			URL: publicURL,
		},
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if timeout <= 0 {
		timeout = DefaultKratosTimeout
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	return &KratosAuthenticator{
		client:  ory.NewAPIClient(cfg),
		timeout: timeout,
		logger:  logger.With("component", "kratos_authenticator"),
	}
}

// Auth 执行一次 native login flow，不重试。
// 凭据被 Kratos 拒绝返回 Denied()；网络错误、5xx、流程异常都作为故障返回。
func (a *KratosAuthenticator) Auth(ctx context.Context, credentials domain.Credentials) (domain.AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// 1. 创建 Login Flow
	flow, _, err := a.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return domain.Denied(), xerrors.NewKratosError("CreateNativeLoginFlow", err).
			WithService("kratos_authenticator", "Auth")
	}

	// 2. 提交登录凭证
	body := ory.UpdateLoginFlowBody{
		UpdateLoginFlowWithPasswordMethod: &ory.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: credentials.Email,
			Password:   credentials.Password,
		},
	}
	result, httpResp, err := a.client.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(body).
		Execute()
	if err != nil {
		if isCredentialRefusal(httpResp, err) {
			a.logger.InfoContext(ctx, "Kratos 拒绝了登录凭据", "email", credentials.Email)
			return domain.Denied(), nil
		}
		appErr := xerrors.NewKratosError("UpdateLoginFlow", err).
			WithService("kratos_authenticator", "Auth")
		if httpResp != nil {
			appErr.WithMetadata("status_code", strconv.Itoa(httpResp.StatusCode))
		}
		annotateKratosFault(appErr, err)
		return domain.Denied(), appErr
	}

	// 3. 取 session token
	if result.SessionToken == nil || *result.SessionToken == "" {
		return domain.Denied(), xerrors.NewKratosError("UpdateLoginFlow", errMissingSessionToken).
			WithService("kratos_authenticator", "Auth").
			WithMetadata("session_id", result.Session.Id)
	}
	return domain.Granted(*result.SessionToken), nil
}

// kratosUIMessage 只解析错误响应里判断用得到的部分
type kratosUIMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type kratosFlowErrorBody struct {
	UI struct {
		Messages []kratosUIMessage `json:"messages"`
		Nodes    []struct {
			Messages []kratosUIMessage `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
}

// kratosErrorMessages 取出错误响应里所有 error 类型的 UI 消息。
// 响应体不是 Kratos flow 时第二个返回值为 false
func kratosErrorMessages(err error) ([]kratosUIMessage, bool) {
	var apiErr *ory.GenericOpenAPIError
	if !errors.As(err, &apiErr) {
		return nil, false
	}
	var payload kratosFlowErrorBody
	if jsonErr := json.Unmarshal(apiErr.Body(), &payload); jsonErr != nil {
		return nil, false
	}

	all := payload.UI.Messages
	for _, node := range payload.UI.Nodes {
		all = append(all, node.Messages...)
	}
	messages := all[:0]
	for _, msg := range all {
		if msg.Type == "" || msg.Type == "error" {
			messages = append(messages, msg)
		}
	}
	return messages, true
}

// isCredentialRefusal 400/401 且错误消息都是"凭据被拒绝"（或没有任何错误消息）时视为拒绝
func isCredentialRefusal(httpResp *http.Response, err error) bool {
	if httpResp == nil {
		return false
	}
	if httpResp.StatusCode != http.StatusBadRequest && httpResp.StatusCode != http.StatusUnauthorized {
		return false
	}

	messages, ok := kratosErrorMessages(err)
	if !ok {
		return true
	}
	for _, msg := range messages {
		if !xerrors.IsCredentialRefusal(xerrors.KratosID(msg.ID), msg.Text) {
			return false
		}
	}
	return true
}

// annotateKratosFault 把第一条 Kratos UI 错误翻译成业务码，写入故障的元数据便于排查
func annotateKratosFault(appErr *xerrors.AppError, err error) {
	messages, _ := kratosErrorMessages(err)
	if len(messages) == 0 {
		return
	}
	msg := messages[0]
	code, text := xerrors.TranslateKratosError(xerrors.KratosID(msg.ID))
	appErr.WithMetadata("kratos_message_id", strconv.FormatInt(msg.ID, 10)).
		WithMetadata("kratos_mapped_code", strconv.Itoa(code.ToInt())).
		WithMetadata("kratos_mapped_message", text)
}
