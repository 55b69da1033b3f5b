// Package redistest 提供进程内的 AsyncCacheService 实现，供测试替换 Redis
package redistest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	myredis "wanderlog/internal/dao/redis"
	"wanderlog/pkg/errorx"
)

type entry struct {
	value    string
	set      map[string]struct{}
	expireAt time.Time
}

// MemoryCache 线程安全的内存缓存，SubmitTask 同步执行
// Fail 非空时所有操作返回该错误，用于模拟 Redis 故障
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]*entry
	Fail error
}

func New() *MemoryCache {
	return &MemoryCache{data: make(map[string]*entry)}
}

var errCacheDown = errors.New("cache unavailable")

// Down 返回一个所有操作都失败的缓存
func Down() *MemoryCache {
	c := New()
	c.Fail = errorx.Wrap(errCacheDown, errorx.CodeCacheError, "memory cache")
	return c
}

func (c *MemoryCache) get(key string) *entry {
	e, ok := c.data[key]
	if !ok {
		return nil
	}
	if !e.expireAt.IsZero() && time.Now().After(e.expireAt) {
		delete(c.data, key)
		return nil
	}
	return e
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.data[key] = &entry{value: value, expireAt: expiry(ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return "", c.Fail
	}
	if e := c.get(key); e != nil {
		return e.value, nil
	}
	return "", nil
}

func (c *MemoryCache) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return false, c.Fail
	}
	if c.get(key) != nil {
		return false, nil
	}
	c.data[key] = &entry{value: value, expireAt: expiry(ttl)}
	return true, nil
}

func (c *MemoryCache) IncrWithExpire(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return 0, c.Fail
	}
	e := c.get(key)
	if e == nil {
		e = &entry{}
		c.data[key] = e
	}
	n, _ := strconv.ParseInt(e.value, 10, 64)
	n++
	e.value = strconv.FormatInt(n, 10)
	if e.expireAt.IsZero() {
		e.expireAt = expiry(window)
	}
	return n, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	if e := c.get(key); e != nil {
		e.expireAt = expiry(ttl)
	}
	return nil
}

func (c *MemoryCache) AddToSet(_ context.Context, key string, members ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	e := c.get(key)
	if e == nil {
		e = &entry{set: make(map[string]struct{})}
		c.data[key] = e
	}
	for _, m := range members {
		if s, ok := m.(string); ok {
			e.set[s] = struct{}{}
		}
	}
	return nil
}

func (c *MemoryCache) GetSetMembers(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	members := make([]string, 0)
	if e := c.get(key); e != nil {
		for m := range e.set {
			members = append(members, m)
		}
	}
	return members, nil
}

// Has 测试辅助：键是否存在
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key) != nil
}

func (c *MemoryCache) SubmitTask(action func()) {
	action()
}

var _ myredis.AsyncCacheService = (*MemoryCache)(nil)
