package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/metrics"
	"login-gateway/internal/pkg/xerrors"
)

func newTestEcho(errMetrics *metrics.ErrorMetrics) *echo.Echo {
	e := echo.New()
	e.Use(LoggingMiddleware(log.NewNopLogger()))
	e.Use(RecoveryMiddleware(log.NewNopLogger()))
	e.Use(ErrorMiddleware(log.NewNopLogger(), errMetrics))
	return e
}

func serve(e *echo.Echo, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		status  int
		code    xerrors.ErrorCode
		detail  string
	}{
		{
			name:    "普通错误渲染为 500 并暴露原始描述",
			handler: func(echo.Context) error { return errors.New("email checker down") },
			status:  http.StatusInternalServerError,
			code:    xerrors.CodeInternalError,
			detail:  "email checker down",
		},
		{
			name: "AppError 按错误码推导状态码",
			handler: func(echo.Context) error {
				return xerrors.NewMissingParamError("email")
			},
			status: http.StatusBadRequest,
			code:   xerrors.CodeMissingParam,
			detail: "Missing param: email",
		},
		{
			name:    "echo 400",
			handler: func(echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad body") },
			status:  http.StatusBadRequest,
			code:    xerrors.CodeInvalidRequest,
			detail:  "bad body",
		},
		{
			name:    "echo 502 视为内部错误",
			handler: func(echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") },
			status:  http.StatusBadGateway,
			code:    xerrors.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMetrics := metrics.NewErrorMetricsWithRegistry("test", prometheus.NewRegistry())
			e := newTestEcho(errMetrics)
			e.GET("/x", tt.handler)

			rec, body := serve(e, http.MethodGet, "/x")

			require.Equal(t, tt.status, rec.Code)
			assert.EqualValues(t, tt.code, body["code"])
			if tt.detail != "" {
				assert.Equal(t, tt.detail, body["error"])
			}
			assert.Equal(t, 1, testutil.CollectAndCount(errMetrics.ErrorsByCode))
		})
	}
}

func TestErrorMiddleware_UnknownRoute(t *testing.T) {
	e := newTestEcho(nil)

	rec, body := serve(e, http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.EqualValues(t, xerrors.CodeResourceNotFound, body["code"])
}

func TestErrorMiddleware_CommittedResponse(t *testing.T) {
	e := newTestEcho(nil)
	e.GET("/x", func(c echo.Context) error {
		_ = c.NoContent(http.StatusAccepted)
		return errors.New("late failure")
	})

	rec, _ := serve(e, http.MethodGet, "/x")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	e := newTestEcho(nil)
	e.GET("/panic", func(echo.Context) error { panic("secret internal state") })

	rec, body := serve(e, http.MethodGet, "/panic")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.EqualValues(t, xerrors.CodeInternalError, body["code"])
	assert.NotContains(t, rec.Body.String(), "secret internal state")
}

func TestSanitizeHeaders(t *testing.T) {
	headers := sanitizeHeaders(map[string][]string{
		"Authorization": {"Bearer abc"},
		"Cookie":        {"session=1"},
		"Accept":        {"application/json"},
		"Empty":         {},
	}, DefaultLoggingConfig().SensitiveHeaders)

	assert.Equal(t, map[string]string{
		"Authorization": "***REDACTED***",
		"Cookie":        "***REDACTED***",
		"Accept":        "application/json",
	}, headers)
}

func TestShouldSkip(t *testing.T) {
	skip := DefaultLoggingConfig().SkipPaths
	assert.True(t, shouldSkip("/health", skip))
	assert.True(t, shouldSkip("/metrics", skip))
	assert.False(t, shouldSkip("/api/v1/auth/login", skip))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware([]string{"https://app.example.com"}))
	e.POST("/api/v1/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeadersMiddleware())
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec, _ := serve(e, http.MethodGet, "/x")

	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
}
