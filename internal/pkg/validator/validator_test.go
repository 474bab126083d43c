package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidationAdapter_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"普通邮箱", "any_email@mail.com", true},
		{"带子域名", "user@corp.example.org", true},
		{"大写字母", "Any.Email@Mail.com", true},
		{"缺少 @", "any_email.mail.com", false},
		{"缺少域名", "any_email@", false},
		{"首尾空白", " any_email@mail.com ", false},
		{"空字符串", "", false},
	}

	adapter := NewEmailValidationAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.IsValid(tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type serverConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type sampleConfig struct {
	Server    serverConfig `koanf:"server"`
	Driver    string       `koanf:"driver" validate:"oneof=kratos local"`
	KeyPrefix string       `koanf:"key_prefix" validate:"key_prefix"`
	Hash      string       `koanf:"hash" validate:"omitempty,argon2id_phc"`
	Domains   []string     `koanf:"domains" validate:"dive,email_domain"`
}

func validSample() sampleConfig {
	return sampleConfig{
		Server:    serverConfig{Addr: "localhost:8080"},
		Driver:    "local",
		KeyPrefix: "login:credential:",
		Hash:      "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$aGFzaGhhc2g",
		Domains:   []string{"mail.com", "corp.example.org"},
	}
}

func TestNew_ValidStruct(t *testing.T) {
	cfg := validSample()
	assert.NoError(t, New().Struct(&cfg))
}

func TestNew_TranslatesWithKoanfFieldNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sampleConfig)
		field  string
		tag    string
	}{
		{"地址为空", func(c *sampleConfig) { c.Server.Addr = "" }, "server.addr", "required"},
		{"地址缺少端口", func(c *sampleConfig) { c.Server.Addr = "localhost" }, "server.addr", "hostname_port"},
		{"未知 driver", func(c *sampleConfig) { c.Driver = "ldap" }, "driver", "oneof"},
		{"前缀没有冒号结尾", func(c *sampleConfig) { c.KeyPrefix = "login" }, "key_prefix", "key_prefix"},
		{"前缀大写", func(c *sampleConfig) { c.KeyPrefix = "Login:" }, "key_prefix", "key_prefix"},
		{"bcrypt 哈希", func(c *sampleConfig) { c.Hash = "$2a$10$abcdefghijklmnopqrstuv" }, "hash", "argon2id_phc"},
		{"哈希内存参数过大", func(c *sampleConfig) { c.Hash = "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g" }, "hash", "argon2id_phc"},
		{"哈希迭代次数过大", func(c *sampleConfig) { c.Hash = "$argon2id$v=19$m=65536,t=100,p=4$c2FsdHNhbHQ$aGFzaGhhc2g" }, "hash", "argon2id_phc"},
		{"哈希线程数为 0", func(c *sampleConfig) { c.Hash = "$argon2id$v=19$m=65536,t=1,p=0$c2FsdHNhbHQ$aGFzaGhhc2g" }, "hash", "argon2id_phc"},
		{"哈希版本不支持", func(c *sampleConfig) { c.Hash = "$argon2id$v=16$m=65536,t=1,p=4$c2FsdHNhbHQ$aGFzaGhhc2g" }, "hash", "argon2id_phc"},
		{"域名大写", func(c *sampleConfig) { c.Domains = []string{"Mail.com"} }, "domains[0]", "email_domain"},
		{"域名缺少后缀", func(c *sampleConfig) { c.Domains = []string{"mail.com", "localhost"} }, "domains[1]", "email_domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSample()
			tt.mutate(&cfg)

			errs := TranslateValidationErrors(New().Struct(&cfg))

			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.tag, errs[0].Tag)
			assert.Contains(t, errs[0].Message, tt.field)
		})
	}
}

func TestTranslateValidationErrors_NonValidatorError(t *testing.T) {
	errs := TranslateValidationErrors(errors.New("boom"))

	require.Len(t, errs, 1)
	assert.Equal(t, "unknown", errs[0].Tag)
	assert.Equal(t, "boom", errs[0].Message)
	assert.Nil(t, TranslateValidationErrors(nil))
}

func TestJoinMessages(t *testing.T) {
	msg := JoinMessages([]ValidationError{{Message: "a"}, {Message: "b"}})
	assert.Equal(t, "a; b", msg)
}
