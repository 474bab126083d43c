package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误详情
type ValidationError struct {
	Field   string `json:"field"`   // 字段路径，如 server.addr
	Message string `json:"message"` // 错误消息
	Tag     string `json:"tag"`     // 验证标签（如：required, email）
}

// TranslateValidationErrors 翻译所有验证错误（返回详细列表）
func TranslateValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ValidationError{{Field: "config", Message: err.Error(), Tag: "unknown"}}
	}

	result := make([]ValidationError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		result = append(result, ValidationError{
			Field:   fieldPath(fieldErr),
			Message: translateFieldError(fieldErr),
			Tag:     fieldErr.Tag(),
		})
	}
	return result
}

// JoinMessages 把所有错误消息合并成一行，用于启动失败时的报错
func JoinMessages(errs []ValidationError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// fieldPath 去掉顶层结构体名：Config.server.addr -> server.addr
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// translateFieldError 翻译单个字段验证错误
func translateFieldError(fe validator.FieldError) string {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s不能为空", field)
	case "email":
		return fmt.Sprintf("%s格式不正确,请输入有效的邮箱地址", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s长度不能少于%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s必须大于或等于%s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s必须小于或等于%s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s格式不正确,请输入有效的URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s格式不正确,应为 host:port", field)
	case "oneof":
		return fmt.Sprintf("%s的值必须是以下之一: %s", field, fe.Param())
	case "argon2id_phc":
		return fmt.Sprintf("%s不是有效的 argon2id 哈希", field)
	case "key_prefix":
		return fmt.Sprintf("%s必须是小写且以冒号结尾", field)
	case "email_domain":
		return fmt.Sprintf("%s不是有效的小写邮箱域名", field)
	default:
		return fmt.Sprintf("%s验证失败: %s", field, fe.Tag())
	}
}
