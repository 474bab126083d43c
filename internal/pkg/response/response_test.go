package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"login-gateway/internal/pkg/i18n"
	"login-gateway/internal/pkg/trace"
	"login-gateway/internal/pkg/xerrors"
)

func TestMapper(t *testing.T) {
	missing := xerrors.NewMissingParamError("email")

	t.Run("BadRequest", func(t *testing.T) {
		resp := BadRequest(missing)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Same(t, missing, resp.Body)
	})

	t.Run("Unauthorized 没有响应体", func(t *testing.T) {
		resp := Unauthorized()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, resp.Body)
	})

	t.Run("ServerError 包装原始故障", func(t *testing.T) {
		fault := errors.New("X")
		resp := ServerError(fault)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		appErr, ok := resp.AppError()
		require.True(t, ok)
		assert.True(t, xerrors.IsServerError(appErr))
		assert.ErrorIs(t, appErr, fault)
		assert.Equal(t, "X", appErr.Metadata("cause"))
	})

	t.Run("OK", func(t *testing.T) {
		resp := OK(map[string]string{"accessToken": "T"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]string{"accessToken": "T"}, resp.Body)
		_, ok := resp.AppError()
		assert.False(t, ok)
	})
}

func serve(t *testing.T, resp HTTPResponse, lang language.Tag) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	ctx := i18n.WithLanguage(trace.WithTraceID(req.Context(), "trace-1"), lang)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	require.NoError(t, Write(e.NewContext(req, rec), resp))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrite_OK(t *testing.T) {
	rec := serve(t, OK(struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: "T"}), language.English)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, xerrors.CodeSuccess, body["code"])
	assert.Equal(t, "Operation successful", body["message"])
	assert.Equal(t, "trace-1", body["trace_id"])
	assert.Equal(t, map[string]any{"accessToken": "T"}, body["data"])
}

func TestWrite_Unauthorized(t *testing.T) {
	rec := serve(t, Unauthorized(), language.Chinese)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWrite_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		lang    language.Tag
		message string
	}{
		{"中文", language.Chinese, "缺少必填参数"},
		{"英文", language.English, "Missing required parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, BadRequest(xerrors.NewMissingParamError("password")), tt.lang)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.EqualValues(t, xerrors.CodeMissingParam, body["code"])
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, "Missing param: password", body["error"])
			assert.NotContains(t, body, "data")
		})
	}
}

func TestWrite_ServerErrorCarriesCause(t *testing.T) {
	rec := serve(t, ServerError(errors.New("kratos unreachable")), language.English)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, xerrors.CodeInternalError, body["code"])
	assert.Equal(t, "kratos unreachable", body["error"])
}

func TestEchoError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   xerrors.ErrorCode
	}{
		{"普通 error 视为内部错误", errors.New("boom"), http.StatusInternalServerError, xerrors.CodeInternalError},
		{"AppError 按错误码映射", xerrors.FromCode(xerrors.CodeKratosError), http.StatusServiceUnavailable, xerrors.CodeKratosError},
		{"被包装的 AppError", errors.Join(errors.New("ctx"), xerrors.NewInvalidParamError("email")), http.StatusBadRequest, xerrors.CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, EchoError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.EqualValues(t, tt.code, decode(t, rec)["code"])
		})
	}
}
