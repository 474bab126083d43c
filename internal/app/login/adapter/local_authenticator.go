package adapter

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"login-gateway/internal/app/login/domain"
	"login-gateway/internal/pkg/log"
	"login-gateway/internal/pkg/xerrors"
)

// accessTokenBytes 本地签发的 access token 随机字节数
const accessTokenBytes = 32

// LocalAuthenticator 不依赖 Kratos 的认证器：从 CredentialStore 取哈希并用 argon2id 校验，
// 通过后签发随机的不透明 token。用于开发环境和没有身份服务的部署。
type LocalAuthenticator struct {
	store    CredentialStore
	hasher   PasswordHasher
	newToken func() (string, error)
	logger   log.Logger
}

// NewLocalAuthenticator 创建本地认证器，hasher 为 nil 时使用 Argon2idHasher
func NewLocalAuthenticator(store CredentialStore, hasher PasswordHasher, logger log.Logger) *LocalAuthenticator {
	if hasher == nil {
		hasher = NewArgon2idHasher()
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &LocalAuthenticator{
		store:    store,
		hasher:   hasher,
		newToken: randomToken,
		logger:   logger.With("component", "local_authenticator"),
	}
}

func (a *LocalAuthenticator) Auth(ctx context.Context, credentials domain.Credentials) (domain.AuthResult, error) {
	hash, err := a.store.PasswordHash(ctx, credentials.Email)
	if errors.Is(err, ErrCredentialNotFound) {
		a.logger.InfoContext(ctx, "账号不存在", "email", credentials.Email)
		return domain.Denied(), nil
	}
	if err != nil {
		return domain.Denied(), xerrors.NewWithError(xerrors.CodeCacheError, "读取凭据失败", err).
			WithService("local_authenticator", "Auth")
	}

	ok, err := a.hasher.Verify(credentials.Password, hash)
	if err != nil {
		return domain.Denied(), fmt.Errorf("verify stored hash for %s: %w", credentials.Email, err)
	}
	if !ok {
		return domain.Denied(), nil
	}

	token, err := a.newToken()
	if err != nil {
		return domain.Denied(), fmt.Errorf("issue access token: %w", err)
	}
	return domain.Granted(token), nil
}

func randomToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
