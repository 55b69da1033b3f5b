// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"wanderlog/internal/config"
	"wanderlog/internal/dao/mysql/repository"
	myredis "wanderlog/internal/dao/redis"
	"wanderlog/internal/infrastructure/mq"
	"wanderlog/internal/service/auth"
	"wanderlog/internal/service/message"
	"wanderlog/internal/service/relation"
	"wanderlog/internal/service/user"
)

// Services 聚合所有 Service 实例
type Services struct {
	User     UserService
	Auth     AuthService
	Relation RelationService
	Message  MessageService
}

// NewServices 创建并注入所有 Service 实例
// cache 为 nil 表示未启用 Redis，各 Service 退化为直读数据库
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, publisher mq.EventPublisher, msgConf config.MessageConfig) *Services {
	relationSvc := relation.NewRelationService(repos, cache)
	return &Services{
		User:     user.NewUserService(repos, cache, relationSvc),
		Auth:     auth.NewAuthService(cache),
		Relation: relationSvc,
		Message: message.NewMessageService(repos, relationSvc, publisher, message.Options{
			DefaultPageLimit: msgConf.DefaultPageLimit,
			MaxPageLimit:     msgConf.MaxPageLimit,
		}),
	}
}
