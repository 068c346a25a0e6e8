package main

import (
	"github.com/spf13/cobra"

	"terminal-terrace/engtheory/internal/database"
	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/internal/user"
)

func newCreateAdminCmd() *cobra.Command {
	var req user.CreateUserRequest

	cmd := &cobra.Command{
		Use:     "create-admin",
		Short:   "创建管理员账号",
		Example: "  engtheory create-admin --username admin --email admin@example.com --password 'Secret123'",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			// 与注册相同的校验（包括全部密码规则）
			req.IsAdmin = true
			u, err := user.NewUserService(db).Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			logging.Infof("管理员已创建 id=%d username=%s", u.ID, u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "用户名")
	cmd.Flags().StringVar(&req.Email, "email", "", "邮箱")
	cmd.Flags().StringVar(&req.Password, "password", "", "密码")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
