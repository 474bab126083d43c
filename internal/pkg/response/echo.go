// File: internal/pkg/response/echo.go
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"login-gateway/internal/pkg/i18n"
	"login-gateway/internal/pkg/trace"
	"login-gateway/internal/pkg/xerrors"
)

// Echo 框架适配器 - 把 HTTPResponse 渲染成统一的 ResponseResult 信封

// Write 渲染一个 HTTPResponse。
// 401 只写状态码；错误响应体按请求语言翻译 message，原始描述放在 error 字段。
func Write(c echo.Context, resp HTTPResponse) error {
	if resp.Body == nil {
		return c.NoContent(resp.StatusCode)
	}
	if appErr, ok := resp.AppError(); ok {
		return EchoAppError(c, resp.StatusCode, appErr)
	}

	data := resp.Body
	result := Success(&data)
	ctx := c.Request().Context()
	result.Message = i18n.GetErrorMessage(xerrors.CodeSuccess, i18n.GetLanguage(ctx))
	result.TraceId = trace.GetTraceID(ctx)
	return c.JSON(resp.StatusCode, result)
}

// EchoAppError 以指定状态码渲染 AppError
func EchoAppError(c echo.Context, statusCode int, appErr *xerrors.AppError) error {
	ctx := c.Request().Context()
	result := Error[EmptyData](
		appErr.Code.ToInt(),
		i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx)),
		errorDetail(appErr),
	)
	result.TraceId = trace.GetTraceID(ctx)
	return c.JSON(statusCode, result)
}

// EchoError 渲染任意 error，状态码由业务错误码推导
func EchoError(c echo.Context, err error) error {
	var appErr *xerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = xerrors.NewServerError(err)
	}
	return EchoAppError(c, xerrors.GetHTTPStatus(appErr.Code), appErr)
}

// EchoBadRequest Echo 400 错误响应
func EchoBadRequest(c echo.Context, message string) error {
	appErr := xerrors.New(xerrors.CodeInvalidRequest, message)
	return EchoAppError(c, http.StatusBadRequest, appErr)
}

// ServerError 的 error 字段是原始故障描述，其余错误用 Message
func errorDetail(appErr *xerrors.AppError) string {
	if appErr.Code == xerrors.CodeInternalError {
		if cause, ok := appErr.Metadata("cause").(string); ok {
			return cause
		}
	}
	return appErr.Message
}
