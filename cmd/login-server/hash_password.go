package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"login-gateway/internal/app/login/adapter"
	"login-gateway/internal/pkg/config"
	"login-gateway/internal/pkg/redis"
)

type hashPasswordOptions struct {
	password   string
	email      string
	writeRedis bool
}

func newHashPasswordCmd() *cobra.Command {
	opts := &hashPasswordOptions{}

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "生成 argon2id 密码哈希，用于 local.users 或 Redis 凭据",
		Long: `生成 PHC 格式的 argon2id 哈希并输出到标准输出。
未指定 --password 时从标准输入读取第一行。
指定 --write-redis 时把哈希写入 Redis 的 <local.key_prefix><email>，Redis 地址取自配置。`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHashPassword(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.password, "password", "", "明文密码（留空则从标准输入读取）")
	cmd.Flags().StringVar(&opts.email, "email", "", "写入 Redis 时使用的邮箱")
	cmd.Flags().BoolVar(&opts.writeRedis, "write-redis", false, "把哈希写入 Redis 凭据存储")

	return cmd
}

func runHashPassword(cmd *cobra.Command, opts *hashPasswordOptions) error {
	if opts.writeRedis && strings.TrimSpace(opts.email) == "" {
		return errors.New("--write-redis 需要同时指定 --email")
	}

	password := opts.password
	if password == "" {
		var err error
		if password, err = readPassword(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	hash, err := adapter.NewArgon2idHasher().Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)

	if !opts.writeRedis {
		return nil
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	client, err := redis.NewClient(cmd.Context(), redisConfig(cfg), "")
	if err != nil {
		return err
	}
	defer client.Close()

	key := adapter.NewRedisCredentialStore(client, cfg.Local.KeyPrefix).Key(opts.email)
	if err := client.SetWithTTL(cmd.Context(), key, hash, 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	cmd.PrintErrf("已写入 %s\n", key)
	return nil
}

// readPassword 读取第一行，去掉行尾换行
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", adapter.ErrEmptyPassword
	}
	return password, nil
}
