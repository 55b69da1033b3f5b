// Package redis 定义缓存服务接口
// Service 层与中间件依赖接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
type CacheService interface {
	// ==================== String 操作 ====================

	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// SetNX 键不存在时写入，返回是否写入成功
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// IncrWithExpire 固定窗口计数器自增，返回自增后的值
	// 窗口从第一次自增开始计时，窗口内的后续自增不顺延过期时间
	IncrWithExpire(ctx context.Context, key string, window time.Duration) (int64, error)

	// ==================== Key 操作 ====================

	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
	// Expire 设置过期时间
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// ==================== Set 集合操作 ====================

	// AddToSet 向集合添加成员
	AddToSet(ctx context.Context, key string, members ...interface{}) error
	// GetSetMembers 获取集合中的所有成员，键不存在返回空切片
	GetSetMembers(ctx context.Context, key string) ([]string, error)
}

// AsyncCacheService 在 CacheService 基础上提供异步任务提交
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务，队列满时同步执行
	SubmitTask(action func())
}
