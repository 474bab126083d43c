package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/response"
	"login-gateway/internal/pkg/xerrors"
)

// RecoveryMiddleware 恢复中间件，panic 渲染为 500 信封，panic 内容只进日志
func RecoveryMiddleware(logger log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				ctx := c.Request().Context()
				logger.ErrorContext(ctx, "应用程序 panic",
					log.Any("panic_value", r),
					log.String("path", c.Request().URL.Path),
					log.String("method", c.Request().Method),
				)

				appErr := xerrors.FromCode(xerrors.CodeInternalError).
					WithService("echo-middleware", "recovery").
					WithMetadata("panic_value", fmt.Sprintf("%v", r))
				err = response.EchoAppError(c, http.StatusInternalServerError, appErr)
			}()

			return next(c)
		}
	}
}
