// File: internal/pkg/response/http_response.go
package response

import (
	"net/http"

	"login-gateway/internal/pkg/xerrors"
)

// HTTPResponse 与传输层无关的响应：状态码 + 响应体。
// Body 可能是 *xerrors.AppError、普通数据对象，或者 nil（空响应体）。
type HTTPResponse struct {
	StatusCode int
	Body       any
}

// BadRequest 400，响应体为校验错误本身
func BadRequest(err *xerrors.AppError) HTTPResponse {
	return HTTPResponse{StatusCode: http.StatusBadRequest, Body: err}
}

// Unauthorized 401，没有响应体
func Unauthorized() HTTPResponse {
	return HTTPResponse{StatusCode: http.StatusUnauthorized}
}

// ServerError 500，响应体为包装了 fault 的 ServerError
func ServerError(fault error) HTTPResponse {
	return HTTPResponse{StatusCode: http.StatusInternalServerError, Body: xerrors.NewServerError(fault)}
}

// OK 200
func OK(data any) HTTPResponse {
	return HTTPResponse{StatusCode: http.StatusOK, Body: data}
}

// AppError 响应体是错误时返回它
func (r HTTPResponse) AppError() (*xerrors.AppError, bool) {
	appErr, ok := r.Body.(*xerrors.AppError)
	return appErr, ok && appErr != nil
}
