// Package logging 结构化日志封装
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
)

// L 包级日志实例，Init 之前输出到 stderr
var L = clog.NewWithOptions(os.Stderr, clog.Options{ReportTimestamp: true})

// Options 日志配置（与 config.LogConfig 字段一致）
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, file
	Path   string // 日志文件路径
}

// Init 根据配置初始化日志
func Init(opts Options) error {
	var w io.Writer = os.Stdout
	if opts.Output == "file" && opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		w = f
	}

	logger := clog.NewWithOptions(w, clog.Options{ReportTimestamp: true})
	level := clog.InfoLevel
	if opts.Level != "" {
		parsed, err := clog.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)
	if opts.Format == "json" {
		logger.SetFormatter(clog.JSONFormatter)
	}

	L = logger
	return nil
}

// With 返回带组件前缀的子日志
func With(prefix string) *clog.Logger {
	return L.WithPrefix(prefix)
}

func Debugf(format string, v ...any) {
	L.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
