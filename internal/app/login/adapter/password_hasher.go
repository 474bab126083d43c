package adapter

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id 参数（OWASP 推荐值）
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// 校验时接受的参数上限，存储的哈希超出范围直接视为损坏
const (
	maxArgon2Memory     = 1 << 20 // KiB，即 1 GiB
	maxArgon2Iterations = 10
	maxArgon2Threads    = 255
	maxArgon2SaltLen    = 64
	maxArgon2KeyLen     = 64
)

var (
	// ErrEmptyPassword 不允许对空密码求哈希
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrInvalidHash 存储的哈希无法解析
	ErrInvalidHash = errors.New("invalid password hash")
)

// PasswordHasher 密码哈希与校验
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify 匹配返回 (true, nil)，不匹配返回 (false, nil)，哈希格式错误返回 error
	Verify(password, encodedHash string) (bool, error)
}

// Argon2idHasher PHC 格式的 argon2id 实现：
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Argon2idHasher struct{}

// NewArgon2idHasher 创建 Argon2idHasher
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash 生成随机盐并计算哈希
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify 用哈希中记录的参数重新计算并做常量时间比较
func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return false, fmt.Errorf("%w: expected 6 PHC segments", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %d", ErrInvalidHash, version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if err := checkArgon2Params(memory, iterations, threads); err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}
	if len(salt) == 0 || len(salt) > maxArgon2SaltLen {
		return false, fmt.Errorf("%w: salt length %d", ErrInvalidHash, len(salt))
	}
	if len(expected) == 0 || len(expected) > maxArgon2KeyLen {
		return false, fmt.Errorf("%w: key length %d", ErrInvalidHash, len(expected))
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// checkArgon2Params 拒绝会让 IDKey 分配超大内存或长时间占用 CPU 的参数。
// argon2 要求 memory 至少为 8*threads KiB。
func checkArgon2Params(memory, iterations, threads uint32) error {
	switch {
	case threads == 0 || threads > maxArgon2Threads:
		return fmt.Errorf("%w: threads %d out of range", ErrInvalidHash, threads)
	case iterations == 0 || iterations > maxArgon2Iterations:
		return fmt.Errorf("%w: iterations %d out of range", ErrInvalidHash, iterations)
	case memory > maxArgon2Memory || uint64(memory) < 8*uint64(threads):
		return fmt.Errorf("%w: memory %d KiB out of range", ErrInvalidHash, memory)
	}
	return nil
}
