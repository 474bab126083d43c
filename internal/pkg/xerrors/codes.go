// File: internal/pkg/xerrors/codes.go
package xerrors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// ToInt 转换为 int（用于 JSON 序列化等场景）
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义
// 按领域分段：1xxxxx 通用，2xxxxx 认证，7xxxxx 外部服务。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess          ErrorCode = 100000 // 操作成功
	CodeInternalError    ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams    ErrorCode = 100002 // 参数错误
	CodeInvalidRequest   ErrorCode = 100003 // 请求格式错误
	CodeMissingParam     ErrorCode = 100004 // 缺少必填参数
	CodeResourceNotFound ErrorCode = 100404 // 资源不存在

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidCredentials   ErrorCode = 200004 // 凭据无效

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeKratosError          ErrorCode = 700002 // Kratos服务错误
	CodeCacheError           ErrorCode = 700004 // 缓存服务错误
	CodeMessageQueueError    ErrorCode = 700005 // 消息队列错误
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:          "操作成功",
	CodeInternalError:    "内部服务错误",
	CodeInvalidParams:    "参数错误",
	CodeInvalidRequest:   "请求格式错误",
	CodeMissingParam:     "缺少必填参数",
	CodeResourceNotFound: "资源不存在",

	CodeAuthenticationFailed: "认证失败",
	CodeInvalidCredentials:   "凭据无效",

	CodeExternalServiceError: "外部服务错误",
	CodeKratosError:          "Kratos服务错误",
	CodeCacheError:           "缓存服务错误",
	CodeMessageQueueError:    "消息队列错误",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code == CodeInvalidParams || code == CodeInvalidRequest || code == CodeMissingParam:
		return http.StatusBadRequest
	case code == CodeResourceNotFound:
		return http.StatusNotFound
	case code >= 200000 && code < 300000:
		return http.StatusUnauthorized
	case code >= 700000 && code < 800000:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code == CodeInvalidParams || code == CodeInvalidRequest || code == CodeMissingParam:
		return "validation"
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取日志级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeInternalError:
		return LevelCritical
	case code >= 700000:
		return LevelError
	case code >= 200000 && code < 300000:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// isRetryableByCode 外部服务类错误可重试
func isRetryableByCode(code ErrorCode) bool {
	return code >= 700000 && code < 800000
}
