package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/xerrors"
)

const loginFlowJSON = `{
	"id": "flow-1",
	"type": "api",
	"state": "choose_method",
	"expires_at": "2099-01-01T00:00:00Z",
	"issued_at": "2026-01-01T00:00:00Z",
	"request_url": "http://kratos/self-service/login/api",
	"ui": {"action": "http://kratos/self-service/login?flow=flow-1", "method": "POST", "nodes": []}
}`

// fakeKratos 模拟 Kratos public API 的 native login flow
type fakeKratos struct {
	submitStatus int
	submitBody   string
	createStatus int

	submissions atomic.Int32
	lastBody    atomic.Value
}

func (k *fakeKratos) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/self-service/login/api":
		if k.createStatus != 0 {
			w.WriteHeader(k.createStatus)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
			return
		}
		_, _ = w.Write([]byte(loginFlowJSON))
	case r.Method == http.MethodPost && r.URL.Path == "/self-service/login":
		k.submissions.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["flow"] = r.URL.Query().Get("flow")
		k.lastBody.Store(body)
		w.WriteHeader(k.submitStatus)
		_, _ = w.Write([]byte(k.submitBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newKratosFixture(t *testing.T, k *fakeKratos) *KratosAuthenticator {
	t.Helper()
	server := httptest.NewServer(k)
	t.Cleanup(server.Close)
	return NewKratosAuthenticator(server.URL, 2*time.Second, server.Client(), log.NewNopLogger())
}

func refusalBody(id int, text string) string {
	flow := map[string]any{}
	_ = json.Unmarshal([]byte(loginFlowJSON), &flow)
	flow["ui"].(map[string]any)["messages"] = []map[string]any{{"id": id, "text": text, "type": "error"}}
	data, _ := json.Marshal(flow)
	return string(data)
}

var creds = domain.Credentials{Email: "user@mail.com", Password: "secret"}

func TestKratosAuthenticator_Granted(t *testing.T) {
	k := &fakeKratos{
		submitStatus: http.StatusOK,
		submitBody:   `{"session_token": "ory_st_abc", "session": {"id": "sess-1"}}`,
	}
	sut := newKratosFixture(t, k)

	result, err := sut.Auth(context.Background(), creds)

	require.NoError(t, err)
	token, ok := result.Token()
	assert.True(t, ok)
	assert.Equal(t, "ory_st_abc", token)
	assert.EqualValues(t, 1, k.submissions.Load())

	body := k.lastBody.Load().(map[string]any)
	assert.Equal(t, "password", body["method"])
	assert.Equal(t, "user@mail.com", body["identifier"])
	assert.Equal(t, "secret", body["password"])
	assert.Equal(t, "flow-1", body["flow"])
}

func TestKratosAuthenticator_Denied(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"凭据错误", http.StatusBadRequest, refusalBody(4000006, "The provided credentials are invalid, check for spelling mistakes in your password or username, email address, or phone number.")},
		{"邮箱未验证", http.StatusBadRequest, refusalBody(4000010, "Account not active yet. Did you forget to verify your email address?")},
		{"未知 ID 但文本表示凭据错误", http.StatusBadRequest, refusalBody(4009999, "invalid credentials")},
		{"401 没有消息", http.StatusUnauthorized, `{}`},
		{"400 响应体不是 JSON", http.StatusBadRequest, `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut := newKratosFixture(t, &fakeKratos{submitStatus: tt.status, submitBody: tt.body})

			result, err := sut.Auth(context.Background(), creds)

			require.NoError(t, err)
			_, ok := result.Token()
			assert.False(t, ok)
		})
	}
}

func TestKratosAuthenticator_Faults(t *testing.T) {
	tests := []struct {
		name    string
		kratos  *fakeKratos
		wantErr string
	}{
		{
			name:   "创建流程失败",
			kratos: &fakeKratos{createStatus: http.StatusInternalServerError},
		},
		{
			name:   "提交返回 5xx",
			kratos: &fakeKratos{submitStatus: http.StatusBadGateway, submitBody: `{"error":{"code":502}}`},
		},
		{
			name:   "流程已过期",
			kratos: &fakeKratos{submitStatus: http.StatusBadRequest, submitBody: refusalBody(4010001, "The login flow expired")},
		},
		{
			name:    "成功但没有 session token",
			kratos:  &fakeKratos{submitStatus: http.StatusOK, submitBody: `{"session": {"id": "sess-1"}}`},
			wantErr: errMissingSessionToken.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut := newKratosFixture(t, tt.kratos)

			_, err := sut.Auth(context.Background(), creds)

			require.Error(t, err)
			var appErr *xerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, xerrors.CodeKratosError, appErr.Code)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, errMissingSessionToken)
			}
			assert.LessOrEqual(t, tt.kratos.submissions.Load(), int32(1))
		})
	}
}

func TestKratosAuthenticator_FaultCarriesTranslatedKratosMessage(t *testing.T) {
	sut := newKratosFixture(t, &fakeKratos{
		submitStatus: http.StatusBadRequest,
		submitBody:   refusalBody(4010001, "The login flow expired"),
	})

	_, err := sut.Auth(context.Background(), creds)

	var appErr *xerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "4010001", appErr.Metadata("kratos_message_id"))
	assert.Equal(t, strconv.Itoa(xerrors.CodeKratosError.ToInt()), appErr.Metadata("kratos_mapped_code"))
	assert.Equal(t, "登录流程已过期", appErr.Metadata("kratos_mapped_message"))
	assert.Equal(t, "400", appErr.Metadata("status_code"))
}

func TestKratosAuthenticator_FaultWithoutUIMessages(t *testing.T) {
	sut := newKratosFixture(t, &fakeKratos{submitStatus: http.StatusBadGateway, submitBody: `{"error":{"code":502}}`})

	_, err := sut.Auth(context.Background(), creds)

	var appErr *xerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Nil(t, appErr.Metadata("kratos_mapped_code"))
	assert.Equal(t, "502", appErr.Metadata("status_code"))
}

func TestKratosAuthenticator_TransportFault(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	sut := NewKratosAuthenticator(url, time.Second, nil, log.NewNopLogger())

	_, err := sut.Auth(context.Background(), creds)

	assert.Error(t, err)
}

func TestKratosAuthenticator_RespectsContextCancel(t *testing.T) {
	k := &fakeKratos{submitStatus: http.StatusOK, submitBody: `{"session_token":"t","session":{"id":"s"}}`}
	sut := newKratosFixture(t, k)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sut.Auth(ctx, creds)

	assert.Error(t, err)
	assert.EqualValues(t, 0, k.submissions.Load())
}
