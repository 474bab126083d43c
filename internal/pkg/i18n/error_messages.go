// File: internal/pkg/i18n/error_messages.go
package i18n

import (
	"golang.org/x/text/language"

	"login-gateway/internal/pkg/xerrors"
)

// ErrorMessages 错误消息的多语言映射
var ErrorMessages = map[xerrors.ErrorCode]map[language.Tag]string{
	// 1xxxxx: 通用错误码
	xerrors.CodeSuccess:          {language.Chinese: "操作成功", language.English: "Operation successful"},
	xerrors.CodeInternalError:    {language.Chinese: "内部服务错误", language.English: "Internal server error"},
	xerrors.CodeInvalidParams:    {language.Chinese: "参数错误", language.English: "Invalid parameters"},
	xerrors.CodeInvalidRequest:   {language.Chinese: "请求格式错误", language.English: "Invalid request format"},
	xerrors.CodeMissingParam:     {language.Chinese: "缺少必填参数", language.English: "Missing required parameter"},
	xerrors.CodeResourceNotFound: {language.Chinese: "资源不存在", language.English: "Resource not found"},

	// 2xxxxx: 认证相关错误码
	xerrors.CodeAuthenticationFailed: {language.Chinese: "认证失败", language.English: "Authentication failed"},
	xerrors.CodeInvalidCredentials:   {language.Chinese: "凭据无效", language.English: "Invalid credentials"},

	// 7xxxxx: 外部服务错误码
	xerrors.CodeExternalServiceError: {language.Chinese: "外部服务错误", language.English: "External service error"},
	xerrors.CodeKratosError:          {language.Chinese: "Kratos服务错误", language.English: "Kratos service error"},
	xerrors.CodeCacheError:           {language.Chinese: "缓存服务错误", language.English: "Cache service error"},
	xerrors.CodeMessageQueueError:    {language.Chinese: "消息队列错误", language.English: "Message queue error"},
}

// GetErrorMessage 获取错误码对应语言的消息
func GetErrorMessage(code xerrors.ErrorCode, lang language.Tag) string {
	if messages, ok := ErrorMessages[code]; ok {
		if msg, ok := messages[lang]; ok {
			return msg
		}
		// 如果指定语言没有翻译，返回中文（默认）
		if msg, ok := messages[language.Chinese]; ok {
			return msg
		}
	}
	// 如果完全没有定义，返回通用错误消息
	if lang == language.English {
		return "Unknown error"
	}
	return "未知错误"
}
