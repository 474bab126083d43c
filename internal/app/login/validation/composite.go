package validation

import (
	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/xerrors"
)

// ValidatorComposite 依次执行校验器，遇到第一个错误立即返回，后面的校验器不再执行。
// 列表顺序即错误优先级。
type ValidatorComposite struct {
	validators []domain.Validator
}

// NewValidatorComposite 创建组合校验器
func NewValidatorComposite(validators ...domain.Validator) *ValidatorComposite {
	return &ValidatorComposite{
		validators: append([]domain.Validator(nil), validators...),
	}
}

// Validate 返回第一个校验错误或第一个故障
func (c *ValidatorComposite) Validate(input domain.Payload) (*xerrors.AppError, error) {
	for _, validator := range c.validators {
		appErr, err := validator.Validate(input)
		if err != nil {
			return nil, err
		}
		if appErr != nil {
			return appErr, nil
		}
	}
	return nil, nil
}

// 登录载荷中的字段名
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// NewLoginValidator 组装登录请求的校验链：先必填字段，再邮箱格式，然后是额外规则
func NewLoginValidator(emailValidation domain.EmailValidation, extra ...domain.Validator) *ValidatorComposite {
	validators := []domain.Validator{
		NewRequiredFieldsValidator(FieldEmail, FieldPassword),
		NewEmailValidator(FieldEmail, emailValidation),
	}
	validators = append(validators, extra...)
	return NewValidatorComposite(validators...)
}
