// Package relation 维护关注图（exploring / explorers）并提供互关判断
// 互关判断直接读库；关注列表以 Redis Set 做旁路缓存，只用于主页计数
package relation

import (
	"context"
	"time"

	"wanderlog/internal/dao/mysql/repository"
	myredis "wanderlog/internal/dao/redis"
	"wanderlog/pkg/constants"
	"wanderlog/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emptyMember 空集合占位，Redis 不能保存空 Set
const emptyMember = "#"

// Service 关注关系业务实现
// cache 为 nil 时（未启用 Redis）直接读数据库
type Service struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

func NewRelationService(repos *repository.Repositories, cache myredis.AsyncCacheService) *Service {
	return &Service{repos: repos, cache: cache}
}

// AreFriends userA 关注 userB 且 userB 关注 userA 即为互关
// 决定私信是否被拦截，两条边都从 user_follow 读取，不经过缓存
// userA 加载失败或查询出错时返回 false 并记录日志，不向调用方传播错误
func (s *Service) AreFriends(ctx context.Context, userA, userB string) bool {
	if _, err := s.repos.User.FindByUuid(ctx, userA); err != nil {
		zap.L().Warn("friendship check: load user failed", zap.String("user", userA), zap.Error(err))
		return false
	}
	for _, edge := range [][2]string{{userA, userB}, {userB, userA}} {
		ok, err := s.repos.Follow.Exists(ctx, edge[0], edge[1])
		if err != nil {
			zap.L().Warn("friendship check: query follow failed",
				zap.String("explorer", edge[0]), zap.String("exploring", edge[1]), zap.Error(err))
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// Explore explorer 关注 target，重复关注不报错
func (s *Service) Explore(ctx context.Context, explorerId, targetId string) error {
	if explorerId == targetId {
		return errorx.New(errorx.CodeInvalidParam, "cannot explore yourself")
	}
	if _, err := s.repos.User.FindActiveByUuid(ctx, targetId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "user not found")
		}
		zap.L().Error("explore: load target failed", zap.String("target", targetId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if err := s.repos.Follow.Create(ctx, explorerId, targetId); err != nil {
		zap.L().Error("explore: create follow failed", zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.invalidate(ctx, explorerId, targetId)
	return nil
}

// Unexplore 取消关注，未关注时不报错
func (s *Service) Unexplore(ctx context.Context, explorerId, targetId string) error {
	if explorerId == targetId {
		return errorx.New(errorx.CodeInvalidParam, "cannot unexplore yourself")
	}
	if _, err := s.repos.Follow.Delete(ctx, explorerId, targetId); err != nil {
		zap.L().Error("unexplore: delete follow failed", zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.invalidate(ctx, explorerId, targetId)
	return nil
}

// Counts 返回关注数与粉丝数
func (s *Service) Counts(ctx context.Context, userId string) (exploring int, explorers int, err error) {
	exploringIds, err := s.exploringIds(ctx, userId)
	if err != nil {
		return 0, 0, err
	}
	explorerIds, err := s.explorerIds(ctx, userId)
	if err != nil {
		return 0, 0, err
	}
	return len(exploringIds), len(explorerIds), nil
}

func (s *Service) exploringIds(ctx context.Context, userId string) ([]string, error) {
	return s.loadIds(ctx, constants.USER_EXPLORING_KEY+userId, userId, s.repos.Follow.FindExploringIds)
}

func (s *Service) explorerIds(ctx context.Context, userId string) ([]string, error) {
	return s.loadIds(ctx, constants.USER_EXPLORERS_KEY+userId, userId, s.repos.Follow.FindExplorerIds)
}

// loadIds 先读缓存，未命中读库并异步回填
// 读库前记下版本号，回填时版本已变说明期间发生过关注/取关，放弃回填
func (s *Service) loadIds(ctx context.Context, key, userId string,
	load func(context.Context, string) ([]string, error)) ([]string, error) {
	gen, cacheOK := "", false
	if s.cache != nil {
		members, err := s.cache.GetSetMembers(ctx, key)
		if err != nil {
			zap.L().Warn("read relation cache failed", zap.String("key", key), zap.Error(err))
		} else if len(members) > 0 {
			return withoutPlaceholder(members), nil
		} else if gen, err = s.cache.Get(ctx, constants.RELATION_GEN_KEY+key); err == nil {
			cacheOK = true
		}
	}

	ids, err := load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if cacheOK {
		s.warm(key, gen, ids)
	}
	return ids, nil
}

func (s *Service) warm(key, gen string, ids []string) {
	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, emptyMember)
	for _, id := range ids {
		members = append(members, id)
	}
	s.cache.SubmitTask(func() {
		ctx := context.Background()
		if !s.sameGeneration(ctx, key, gen) {
			return
		}
		if err := s.cache.AddToSet(ctx, key, members...); err != nil {
			zap.L().Warn("warm relation cache failed", zap.String("key", key), zap.Error(err))
			return
		}
		if err := s.cache.Expire(ctx, key, constants.REDIS_TIMEOUT*time.Minute); err != nil {
			zap.L().Warn("expire relation cache failed", zap.String("key", key), zap.Error(err))
		}
		// 写入过程中被失效，撤回本次回填
		if !s.sameGeneration(ctx, key, gen) {
			s.deleteKey(ctx, key)
		}
	})
}

func (s *Service) sameGeneration(ctx context.Context, key, gen string) bool {
	cur, err := s.cache.Get(ctx, constants.RELATION_GEN_KEY+key)
	if err != nil {
		zap.L().Warn("read relation cache generation failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return cur == gen
}

// invalidate 更新版本号后删除 explorer 的 exploring 与 target 的 explorers 缓存
func (s *Service) invalidate(ctx context.Context, explorerId, targetId string) {
	if s.cache == nil {
		return
	}
	for _, key := range []string{constants.USER_EXPLORING_KEY + explorerId, constants.USER_EXPLORERS_KEY + targetId} {
		if err := s.cache.Set(ctx, constants.RELATION_GEN_KEY+key, uuid.NewString(), 2*constants.REDIS_TIMEOUT*time.Minute); err != nil {
			zap.L().Warn("bump relation cache generation failed", zap.String("key", key), zap.Error(err))
		}
		s.deleteKey(ctx, key)
	}
}

// deleteKey 同步删除失败时交给异步任务再删一次
func (s *Service) deleteKey(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		zap.L().Warn("invalidate relation cache failed, retry async", zap.String("key", key), zap.Error(err))
		s.cache.SubmitTask(func() {
			if err := s.cache.Delete(context.Background(), key); err != nil {
				zap.L().Error("retry invalidate relation cache failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}

func withoutPlaceholder(members []string) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m != emptyMember {
			ids = append(ids, m)
		}
	}
	return ids
}
