package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/config"
	"terminal-terrace/engtheory/internal/database"
	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/internal/pkg"
	dbPkg "terminal-terrace/engtheory/packages/database"
)

var (
	cfgFile string
	conf    *config.AppConfig
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "engtheory",
		Short: "EngTheory content backend",
		Long:  "Articles organized by topics and tags, with a publish/draft workflow and token auth.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 1. 加载配置
			c, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			conf = c

			// 2. 初始化日志
			return logging.Init(logging.Options{
				Level:  conf.Log.Level,
				Format: conf.Log.Format,
				Output: conf.Log.Output,
				Path:   conf.Log.Path,
			})
		},
		RunE:         runServe,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "配置文件路径")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())
	return root
}

// openDatabase 打开数据库并迁移表结构
func openDatabase() (*gorm.DB, error) {
	db, err := database.OpenAndMigrate(conf.Database)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	return db, nil
}

// newRevocationStore 启用 Redis 时使用 Redis，否则使用进程内缓存
func newRevocationStore(ctx context.Context) (pkg.RevocationStore, func(), error) {
	if !conf.Redis.Enabled {
		logging.Warnf("Redis 未启用，令牌吊销记录仅保存在进程内")
		return pkg.NewMemoryRevocationStore(), func() {}, nil
	}

	client, err := dbPkg.OpenRedis(ctx, dbPkg.RedisOptions{
		Addrs:    conf.Redis.Addrs,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
		PoolSize: conf.Redis.PoolSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return pkg.NewRedisRevocationStore(client), func() { _ = client.Close() }, nil
}
