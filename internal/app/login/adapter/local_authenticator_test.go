package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/xerrors"
)

type failingStore struct{ err error }

func (s failingStore) PasswordHash(context.Context, string) (string, error) {
	return "", s.err
}

func newLocalAuthenticator(t *testing.T, password string) *LocalAuthenticator {
	t.Helper()
	hasher := NewArgon2idHasher()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	store := NewStaticCredentialStore(map[string]string{"user@mail.com": hash})
	return NewLocalAuthenticator(store, hasher, log.NewNopLogger())
}

func TestLocalAuthenticator_Granted(t *testing.T) {
	sut := newLocalAuthenticator(t, "right-password")

	result, err := sut.Auth(context.Background(), domain.Credentials{Email: "user@mail.com", Password: "right-password"})

	require.NoError(t, err)
	token, ok := result.Token()
	assert.True(t, ok)
	assert.Len(t, token, 43)
}

func TestLocalAuthenticator_TokensAreUnique(t *testing.T) {
	sut := newLocalAuthenticator(t, "pw")
	creds := domain.Credentials{Email: "user@mail.com", Password: "pw"}

	first, err := sut.Auth(context.Background(), creds)
	require.NoError(t, err)
	second, err := sut.Auth(context.Background(), creds)
	require.NoError(t, err)

	t1, _ := first.Token()
	t2, _ := second.Token()
	assert.NotEqual(t, t1, t2)
}

func TestLocalAuthenticator_Denied(t *testing.T) {
	sut := newLocalAuthenticator(t, "right-password")

	tests := []struct {
		name  string
		creds domain.Credentials
	}{
		{"密码错误", domain.Credentials{Email: "user@mail.com", Password: "wrong"}},
		{"账号不存在", domain.Credentials{Email: "nobody@mail.com", Password: "right-password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sut.Auth(context.Background(), tt.creds)
			require.NoError(t, err)
			_, ok := result.Token()
			assert.False(t, ok)
		})
	}
}

func TestLocalAuthenticator_Faults(t *testing.T) {
	t.Run("存储故障", func(t *testing.T) {
		storeErr := errors.New("redis down")
		sut := NewLocalAuthenticator(failingStore{err: storeErr}, nil, log.NewNopLogger())

		_, err := sut.Auth(context.Background(), domain.Credentials{Email: "a@b.com", Password: "p"})

		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		var appErr *xerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, xerrors.CodeCacheError, appErr.Code)
	})

	t.Run("哈希损坏", func(t *testing.T) {
		store := NewStaticCredentialStore(map[string]string{"a@b.com": "garbage"})
		sut := NewLocalAuthenticator(store, nil, log.NewNopLogger())

		_, err := sut.Auth(context.Background(), domain.Credentials{Email: "a@b.com", Password: "p"})

		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("哈希参数越界返回故障而不是计算", func(t *testing.T) {
		hostile := "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
		store := NewStaticCredentialStore(map[string]string{"a@b.com": hostile})
		sut := NewLocalAuthenticator(store, NewArgon2idHasher(), log.NewNopLogger())

		result, err := sut.Auth(context.Background(), domain.Credentials{Email: "a@b.com", Password: "p"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidHash)
		_, granted := result.Token()
		assert.False(t, granted)
	})

	t.Run("签发 token 失败", func(t *testing.T) {
		sut := newLocalAuthenticator(t, "pw")
		tokenErr := errors.New("entropy exhausted")
		sut.newToken = func() (string, error) { return "", tokenErr }

		_, err := sut.Auth(context.Background(), domain.Credentials{Email: "user@mail.com", Password: "pw"})

		assert.ErrorIs(t, err, tokenErr)
	})
}
