// Package redis 提供基于 github.com/redis/go-redis/v9 的缓存实现
package redis

import (
	"context"
	"strconv"
	"time"

	"wanderlog/internal/config"
	"wanderlog/pkg/constants"

	"github.com/redis/go-redis/v9"
)

var (
	rdb          *redis.Client
	cacheService AsyncCacheService
)

// NewClient 按配置创建 Redis 客户端
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50,
		MinIdleConns: constants.CACHE_WORKER_NUM, // 与 Worker 数量匹配
	})
}

// Init 建立连接、检查可用性并创建全局缓存服务
func Init(ctx context.Context) error {
	client := NewClient(&config.GetConfig().RedisConfig)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return err
	}
	rdb = client
	cacheService = NewRedisCache(client, constants.CACHE_WORKER_NUM, constants.CACHE_TASK_CHAN_SIZE)
	return nil
}

// Close 关闭连接池
func Close() error {
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}

// GetCacheService 获取全局缓存服务，未初始化时返回 nil
func GetCacheService() AsyncCacheService {
	return cacheService
}
