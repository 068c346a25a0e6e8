// Package database 按配置打开数据库并迁移表结构
package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/engtheory/config"
	"terminal-terrace/engtheory/internal/model"
	"terminal-terrace/engtheory/packages/database"
)

// Open 打开数据库连接（不迁移）
func Open(conf config.DatabaseConfig) (*gorm.DB, error) {
	switch conf.Driver {
	case "sqlite":
		return database.InitSQLite(&database.SQLiteConfig{
			Path:     conf.Path,
			LogLevel: conf.LogLevel,
		})
	case "postgres", "":
		return database.InitPostgres(&database.PostgresConfig{
			DSN:             conf.DSN,
			Username:        conf.Username,
			Password:        conf.Password,
			Host:            conf.Host,
			Port:            conf.Port,
			Database:        conf.Database,
			SSLMode:         conf.SSLMode,
			LogLevel:        conf.LogLevel,
			MaxIdleConns:    conf.MaxIdleConns,
			MaxOpenConns:    conf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
		})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", conf.Driver)
	}
}

// OpenAndMigrate 打开数据库并初始化表结构
func OpenAndMigrate(conf config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	if err := model.InitTable(db); err != nil {
		Close(db)
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}
	return db, nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
