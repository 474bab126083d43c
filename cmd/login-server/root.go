package main

import (
	"github.com/spf13/cobra"
)

// 所有子命令共用的配置文件路径
var configFile string

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login-server",
		Short: "login-gateway - 邮箱密码登录网关",
		Long: `login-gateway 接收 POST /api/v1/auth/login，校验邮箱和密码字段，
交给 Kratos 或本地 argon2id 凭据认证，并返回统一的响应信封。`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML 配置文件路径")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHashPasswordCmd())

	return cmd
}
