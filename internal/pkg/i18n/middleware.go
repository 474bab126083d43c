// File: internal/pkg/i18n/middleware.go
package i18n

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

// LangQueryParam 显式指定语言的查询参数，优先于 Accept-Language
const LangQueryParam = "lang"

// Middleware 协商本次请求的语言，写入 context 供响应信封本地化消息。
// 响应头回写 Content-Language，并声明按 Accept-Language 变化。
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := resolveLanguage(c)

			req := c.Request()
			c.SetRequest(req.WithContext(WithLanguage(req.Context(), lang)))

			header := c.Response().Header()
			header.Set("Content-Language", GetLanguageCode(lang))
			header.Add(echo.HeaderVary, "Accept-Language")

			return next(c)
		}
	}
}

func resolveLanguage(c echo.Context) language.Tag {
	if code := c.QueryParam(LangQueryParam); code != "" {
		return ParseLanguageCode(code)
	}
	return ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
}
