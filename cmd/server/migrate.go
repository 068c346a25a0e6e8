package main

import (
	"github.com/spf13/cobra"

	"terminal-terrace/engtheory/internal/database"
	"terminal-terrace/engtheory/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构后退出",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			database.Close(db)
			logging.Infof("数据库迁移完成 (%s)", conf.Database.Driver)
			return nil
		},
	}
}
