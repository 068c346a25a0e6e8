package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"terminal-terrace/engtheory/internal/logging"
)

// RedisOptions 共享状态（令牌吊销记录）所用的 Redis 连接参数
type RedisOptions struct {
	Addrs       []string // 一个地址为单机，多个地址为集群
	Password    string
	DB          int // 集群模式忽略
	PoolSize    int
	PingTimeout time.Duration // 启动探测超时
}

// OpenRedis 建立 Redis 连接并探测可用性，失败时关闭连接
func OpenRedis(ctx context.Context, opts RedisOptions) (redis.UniversalClient, error) {
	if len(opts.Addrs) == 0 {
		return nil, errors.New("redis 地址不能为空")
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 3 * time.Second
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.Addrs,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败 %v: %w", opts.Addrs, err)
	}

	logging.With("redis").Info("已连接", "addrs", opts.Addrs, "db", opts.DB)
	return client, nil
}
