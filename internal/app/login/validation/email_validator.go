package validation

import (
	"fmt"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/xerrors"
)

// EmailValidator 用注入的 EmailValidation 检查某个字段的邮箱格式
type EmailValidator struct {
	fieldName       string
	emailValidation domain.EmailValidation
}

// NewEmailValidator 创建邮箱格式校验器
func NewEmailValidator(fieldName string, emailValidation domain.EmailValidation) *EmailValidator {
	return &EmailValidator{
		fieldName:       fieldName,
		emailValidation: emailValidation,
	}
}

// Validate 格式不合法时返回 InvalidParam 错误；检查器故障原样向上传递
func (v *EmailValidator) Validate(input domain.Payload) (*xerrors.AppError, error) {
	email, ok := input[v.fieldName].(string)
	if !ok {
		return xerrors.NewInvalidParamError(v.fieldName), nil
	}

	valid, err := v.emailValidation.IsValid(email)
	if err != nil {
		return nil, fmt.Errorf("email validation of %q: %w", v.fieldName, err)
	}
	if !valid {
		return xerrors.NewInvalidParamError(v.fieldName), nil
	}
	return nil, nil
}
