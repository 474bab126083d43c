package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New 创建结构体校验器：注册自定义规则，错误中的字段名取自 koanf 标签
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	registerCustomValidators(v)
	return v
}

// EmailValidationAdapter 基于 go-playground 的 email 规则检查邮箱格式
type EmailValidationAdapter struct {
	validate *validator.Validate
}

// NewEmailValidationAdapter 创建邮箱格式检查器，可并发使用
func NewEmailValidationAdapter() *EmailValidationAdapter {
	return &EmailValidationAdapter{validate: validator.New()}
}

// IsValid 格式不合法返回 false, nil；校验器自身出错才返回 error
func (a *EmailValidationAdapter) IsValid(email string) (bool, error) {
	err := a.validate.Var(email, "email")
	if err == nil {
		return true, nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return false, nil
	}
	return false, fmt.Errorf("email format check: %w", err)
}
