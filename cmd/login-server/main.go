// Package main 是 login-gateway 的入口
package main

import (
	"fmt"
	"os"
)

// @title           Login Gateway API
// @version         1.0
// @description     邮箱密码登录：参数校验、认证、令牌签发

// @host      localhost:8080
// @BasePath  /api/v1

// 构建时注入的版本信息
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
