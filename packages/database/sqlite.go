package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/logging"
)

// SQLiteConfig 本地开发与测试用的 SQLite 配置
type SQLiteConfig struct {
	Path     string // 数据库文件路径，":memory:" 为内存库
	LogLevel string
}

// InitSQLite 初始化 SQLite 连接
//
// 开启外键约束，并限制为单连接：SQLite 只允许一个写者，
// 串行化后并发请求不会出现 database is locked。
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("SQLite 路径不能为空")
	}
	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(config.Path)), gormConfig(config.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logging.With("database").Info("已连接", "driver", "sqlite", "path", config.Path)
	return db, nil
}

func sqliteDSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}
