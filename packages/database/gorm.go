package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"terminal-terrace/engtheory/internal/logging"
)

// gormConfig 开启方言错误翻译，唯一约束冲突会变成 gorm.ErrDuplicatedKey
func gormConfig(level string) *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(level),
		TranslateError: true,
	}
}

// gormWriter 把 gorm 的 SQL 日志转到 database 前缀的日志
type gormWriter struct{}

func (gormWriter) Printf(format string, v ...any) {
	logging.With("database").Debug(fmt.Sprintf(format, v...))
}

func newGormLogger(level string) logger.Interface {
	levels := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"warn":   logger.Warn,
		"info":   logger.Info,
	}
	lvl, ok := levels[level]
	if !ok {
		lvl = logger.Warn
	}
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
