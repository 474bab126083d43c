package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/metrics"
	"login-gateway/internal/pkg/response"
	"login-gateway/internal/pkg/xerrors"
)

// ErrorMiddleware 统一错误处理中间件：把处理器返回的 error 渲染成错误信封。
// errMetrics 为 nil 时不记录指标。
func ErrorMiddleware(logger log.Logger, errMetrics *metrics.ErrorMetrics) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			ctx := c.Request().Context()
			if c.Response().Committed {
				logger.ErrorContext(ctx, "响应已写出后出现错误", log.Any("error", err))
				return nil
			}

			var (
				appErr     *xerrors.AppError
				echoErr    *echo.HTTPError
				statusCode int
			)
			switch {
			case errors.As(err, &appErr):
				statusCode = xerrors.GetHTTPStatus(appErr.Code)
			case errors.As(err, &echoErr):
				appErr = convertEchoError(echoErr)
				statusCode = echoErr.Code
			default:
				// 其他未知错误，包装为系统错误，原始描述放在 error 字段
				appErr = xerrors.NewServerError(err).WithService("echo-middleware", "error_handler")
				statusCode = http.StatusInternalServerError
				logger.ErrorContext(ctx, "未处理的错误",
					log.Any("original_error", err),
					log.String("error_type", fmt.Sprintf("%T", err)),
				)
			}

			errMetrics.RecordError(appErr, statusCode, c.Request().Method, "")
			if statusCode >= http.StatusInternalServerError {
				log.LogAppError(ctx, logger, "请求失败", appErr)
			}
			return response.EchoAppError(c, statusCode, appErr)
		}
	}
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	message := fmt.Sprintf("%v", echoErr.Message)

	switch echoErr.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return xerrors.New(xerrors.CodeInvalidRequest, message)
	case http.StatusUnauthorized:
		return xerrors.New(xerrors.CodeAuthenticationFailed, message)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return xerrors.New(xerrors.CodeResourceNotFound, message)
	default:
		return xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", fmt.Sprintf("%d", echoErr.Code)).
			WithMetadata("echo_message", message)
	}
}
