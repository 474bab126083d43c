package xerrors

import (
	"log/slog"
	"strings"
)

// KratosID Kratos UI message ID
type KratosID int

// 登录流程中会遇到的 Kratos UI message ID
const (
	ErrorValidationGeneric            KratosID = 4000001
	ErrorValidationRequired           KratosID = 4000002
	ErrorValidationInvalidFormat      KratosID = 4000004
	ErrorValidationInvalidCredentials KratosID = 4000006
	ErrorValidationIdentifierMissing  KratosID = 4000009
	ErrorValidationAddressNotVerified KratosID = 4000010
	ErrorValidationLoginFlowExpired   KratosID = 4010001
	ErrorValidationLoginNoStrategy    KratosID = 4010002
)

// kratosErrMapping 是 Kratos 错误 ID 到我们自定义错误码和消息的映射。
var kratosErrMapping = map[KratosID]struct {
	Code    ErrorCode
	Message string
}{
	ErrorValidationGeneric:            {Code: CodeInvalidParams, Message: "输入信息格式不正确"},
	ErrorValidationRequired:           {Code: CodeMissingParam, Message: "缺少必填字段"},
	ErrorValidationInvalidFormat:      {Code: CodeInvalidParams, Message: "提供的凭证格式无效"},
	ErrorValidationInvalidCredentials: {Code: CodeInvalidCredentials, Message: "用户名或密码不正确"},
	ErrorValidationIdentifierMissing:  {Code: CodeMissingParam, Message: "缺少登录标识"},
	ErrorValidationAddressNotVerified: {Code: CodeAuthenticationFailed, Message: "邮箱地址尚未验证"},
	ErrorValidationLoginFlowExpired:   {Code: CodeKratosError, Message: "登录流程已过期"},
	ErrorValidationLoginNoStrategy:    {Code: CodeKratosError, Message: "未找到可用的登录方式"},
}

// TranslateKratosError 根据 Kratos 的 UI message ID 返回我们自定义的错误码和消息。
func TranslateKratosError(kratosID KratosID) (ErrorCode, string) {
	if errInfo, ok := kratosErrMapping[kratosID]; ok {
		return errInfo.Code, errInfo.Message
	}

	// 找不到映射时返回通用的校验错误，并记录日志便于后续补充映射表
	slog.Warn("未知的 Kratos 错误 ID", "kratos_id", int(kratosID))
	return CodeInvalidParams, "提交的信息有误，请检查后重试"
}

// TranslateKratosErrorText 根据 Kratos 返回的消息文本进行兜底翻译（当 ID 不可用或未映射时）
func TranslateKratosErrorText(text string) (ErrorCode, string) {
	if containsAnyFold(text, []string{
		"invalid credentials", "credentials are invalid", "wrong password",
		"unknown email", "user not found", "no such user",
	}) {
		return CodeInvalidCredentials, "用户名或密码不正确"
	}
	if containsAnyFold(text, []string{"not verified", "未验证"}) {
		return CodeAuthenticationFailed, "邮箱地址尚未验证"
	}
	return CodeInvalidParams, "提交的信息有误，请检查后重试"
}

// IsCredentialRefusal 判断一条 Kratos UI 消息是否表示"凭据被拒绝"。
// ID 优先，未映射时用文本兜底。
func IsCredentialRefusal(kratosID KratosID, text string) bool {
	if errInfo, ok := kratosErrMapping[kratosID]; ok {
		return errInfo.Code == CodeInvalidCredentials || errInfo.Code == CodeAuthenticationFailed
	}
	code, _ := TranslateKratosErrorText(text)
	return code == CodeInvalidCredentials || code == CodeAuthenticationFailed
}

// containsAnyFold 做大小写不敏感包含匹配
func containsAnyFold(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
