package validation

import (
	"strings"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/xerrors"
)

// EmailDomainValidator 只放行白名单域名下的邮箱，比较时忽略大小写
type EmailDomainValidator struct {
	fieldName string
	allowed   map[string]struct{}
}

// NewEmailDomainValidator 创建域名白名单校验器
func NewEmailDomainValidator(fieldName string, domains ...string) *EmailDomainValidator {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		allowed[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return &EmailDomainValidator{fieldName: fieldName, allowed: allowed}
}

// Validate 域名不在白名单时返回 InvalidParam 错误
func (v *EmailDomainValidator) Validate(input domain.Payload) (*xerrors.AppError, error) {
	email, ok := input[v.fieldName].(string)
	if !ok {
		return xerrors.NewInvalidParamError(v.fieldName), nil
	}

	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return xerrors.NewInvalidParamError(v.fieldName), nil
	}
	if _, ok := v.allowed[strings.ToLower(email[at+1:])]; !ok {
		return xerrors.NewInvalidParamError(v.fieldName), nil
	}
	return nil, nil
}
