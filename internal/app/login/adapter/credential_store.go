package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

// ErrCredentialNotFound 存储中没有该邮箱
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialStore 按邮箱查找密码哈希。
// 找不到时返回 ErrCredentialNotFound，其他 error 都是故障。
type CredentialStore interface {
	PasswordHash(ctx context.Context, email string) (string, error)
}

// normalizeEmail 存储键统一小写、去掉首尾空白
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StaticCredentialStore 配置文件中的静态账号，启动后只读
type StaticCredentialStore struct {
	hashes map[string]string
}

// NewStaticCredentialStore 复制一份 email -> hash 映射
func NewStaticCredentialStore(hashes map[string]string) *StaticCredentialStore {
	copied := make(map[string]string, len(hashes))
	for email, hash := range hashes {
		copied[normalizeEmail(email)] = hash
	}
	return &StaticCredentialStore{hashes: copied}
}

func (s *StaticCredentialStore) PasswordHash(_ context.Context, email string) (string, error) {
	hash, ok := s.hashes[normalizeEmail(email)]
	if !ok {
		return "", ErrCredentialNotFound
	}
	return hash, nil
}

// Len 账号数量
func (s *StaticCredentialStore) Len() int {
	return len(s.hashes)
}

// StringGetter Redis 读取能力，*redis.Client 满足该接口
type StringGetter interface {
	GetString(ctx context.Context, key string) (string, error)
}

// DefaultCredentialKeyPrefix Redis 中凭据键的默认前缀
const DefaultCredentialKeyPrefix = "login:credential:"

// RedisCredentialStore 从 Redis 读取 <prefix><email> 中保存的 PHC 哈希
type RedisCredentialStore struct {
	client StringGetter
	prefix string
}

// NewRedisCredentialStore 创建 Redis 凭据存储
func NewRedisCredentialStore(client StringGetter, prefix string) *RedisCredentialStore {
	if prefix == "" {
		prefix = DefaultCredentialKeyPrefix
	}
	return &RedisCredentialStore{client: client, prefix: prefix}
}

// Key 返回邮箱对应的 Redis 键
func (s *RedisCredentialStore) Key(email string) string {
	return s.prefix + normalizeEmail(email)
}

func (s *RedisCredentialStore) PasswordHash(ctx context.Context, email string) (string, error) {
	hash, err := s.client.GetString(ctx, s.Key(email))
	if errors.Is(err, goredis.Nil) {
		return "", ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read credential from redis: %w", err)
	}
	return hash, nil
}
