// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"

	"wanderlog/internal/dto/request"
	"wanderlog/internal/dto/respond"
)

// UserService 用户业务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// GetProfile 用户主页（含关注数/粉丝数）
	GetProfile(ctx context.Context, uuid string) (*respond.UserProfileRespond, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// Refresh 使用 Refresh Token 换取新的 Access Token
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// RelationService 关注关系业务接口
type RelationService interface {
	// AreFriends 是否互相关注，查询失败按非好友处理
	AreFriends(ctx context.Context, userA, userB string) bool
	Explore(ctx context.Context, explorerId, targetId string) error
	Unexplore(ctx context.Context, explorerId, targetId string) error
}

// MessageService 私信业务接口
type MessageService interface {
	// Send 发送私信，非互关时拦截为消息请求
	Send(ctx context.Context, senderId, receiverId, body, messageType string) (*respond.SendMessageRespond, error)
	// AcceptRequest 接受请求，返回放出的消息数
	AcceptRequest(ctx context.Context, receiverId, senderId string) (int64, error)
	// DeclineRequest 拒绝请求，返回被隐藏的消息数
	DeclineRequest(ctx context.Context, receiverId, senderId string) (int64, error)
	GetConversation(ctx context.Context, userId, partnerId string, page, limit int) (*respond.ConversationPageRespond, error)
	GetRequestMessages(ctx context.Context, senderId, receiverId string) ([]respond.MessageRespond, error)
	GetUnreadCount(ctx context.Context, userId, fromUserId string) (int64, error)
	MarkAllAsRead(ctx context.Context, receiverId, senderId string) (int64, error)
	GetRequestsForUser(ctx context.Context, receiverId string) ([]respond.MessageRequestRespond, error)
	CountPendingRequests(ctx context.Context, receiverId string) (int64, error)
	GetConversations(ctx context.Context, userId string) ([]respond.ConversationRespond, error)
	DeleteMessage(ctx context.Context, userId, messageId string) error
}
