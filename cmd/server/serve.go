package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"terminal-terrace/engtheory/internal/database"
	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/internal/pkg"
	"terminal-terrace/engtheory/internal/route"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（默认命令）",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 初始化数据库
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	// 2. 令牌与吊销存储
	revoked, closeStore, err := newRevocationStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	tokens := pkg.NewTokenManager(conf.JWT)

	// 3. 设置路由
	router := route.SetupRouter(conf.Server, route.NewServices(db, tokens, revoked))

	// 4. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      router,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("服务启动于 %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Infof("收到退出信号，正在关闭服务")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务异常退出: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	logging.Infof("服务已停止")
	return nil
}
