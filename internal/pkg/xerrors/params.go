// File: internal/pkg/xerrors/params.go
package xerrors

import "errors"

// 登录链路的错误分类：
//   - MissingParam: 必填字段缺失，返回 400
//   - InvalidParam: 字段格式不正确，返回 400
//   - ServerError:  认证器故障，返回 500
// 401 没有错误对象，只有状态码。

// NewMissingParamError 创建缺少必填参数错误
func NewMissingParamError(field string) *AppError {
	appErr := FromCode(CodeMissingParam).WithMetadata("field", field)
	appErr.Message = "Missing param: " + field
	return appErr
}

// NewInvalidParamError 创建参数格式错误
func NewInvalidParamError(field string) *AppError {
	appErr := FromCode(CodeInvalidParams).WithMetadata("field", field)
	appErr.Message = "Invalid param: " + field
	return appErr
}

// NewServerError 包装认证阶段的故障，cause 的描述作为元数据随响应返回
func NewServerError(cause error) *AppError {
	appErr := FromCode(CodeInternalError)
	appErr.Err = cause
	if cause != nil {
		appErr.WithMetadata("cause", cause.Error())
	}
	return appErr
}

// Field 返回出错的字段名，非字段类错误返回空串
func (e *AppError) Field() string {
	field, _ := e.Metadata("field").(string)
	return field
}

// Cause 返回 ServerError 包装的原始故障
func (e *AppError) Cause() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsMissingParam 判断 err 是否为缺少参数错误
func IsMissingParam(err error) bool {
	return hasCode(err, CodeMissingParam)
}

// IsInvalidParam 判断 err 是否为参数格式错误
func IsInvalidParam(err error) bool {
	return hasCode(err, CodeInvalidParams)
}

// IsServerError 判断 err 是否为内部服务错误
func IsServerError(err error) bool {
	return hasCode(err, CodeInternalError)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
