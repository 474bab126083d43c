package validation

import (
	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/xerrors"
)

// RequiredFieldsValidator 按配置顺序检查必填字段
type RequiredFieldsValidator struct {
	fields []string
}

// NewRequiredFieldsValidator 创建必填字段校验器，fields 的顺序决定多个字段缺失时报告哪一个
func NewRequiredFieldsValidator(fields ...string) *RequiredFieldsValidator {
	return &RequiredFieldsValidator{
		fields: append([]string(nil), fields...),
	}
}

// Validate 返回第一个缺失字段的 MissingParam 错误
func (v *RequiredFieldsValidator) Validate(input domain.Payload) (*xerrors.AppError, error) {
	for _, field := range v.fields {
		if isEmpty(input[field]) {
			return xerrors.NewMissingParamError(field), nil
		}
	}
	return nil, nil
}

// isEmpty 不存在、nil 与空字符串都视为缺失
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
