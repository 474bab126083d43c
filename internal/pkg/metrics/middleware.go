// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RoutePatternHeader 响应头中回显命中的路由模板，便于排查指标标签
const RoutePatternHeader = "X-Route-Pattern"

// Middleware Echo 中间件 - 按路由模板记录 HTTP 请求指标，健康检查端点不计入
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsHealthCheckEndpoint(c.Request().URL.Path) {
				return next(c)
			}

			m := DefaultHTTPMetrics
			service := GetServiceName()
			route := NormalizeRoute(c.Path())
			c.Response().Header().Set(RoutePatternHeader, route)

			m.IncInProgress(service)
			defer m.DecInProgress(service)

			start := time.Now()
			err := next(c)

			// handler 返回的 error 尚未被 echo 渲染，状态码以 HTTPError 为准
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			m.RecordRequest(service, route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}

// Handler 返回 Prometheus metrics HTTP 处理器
// 用于暴露 /metrics 端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor 返回指定 Gatherer 的处理器，测试中配合自定义 registry 使用
func HandlerFor(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
