// Package repository 定义数据访问层接口和聚合结构
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"wanderlog/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户（不区分状态）
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindActiveByUuid 查找状态正常的用户
	FindActiveByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindByUsername 根据登录名查找用户
	FindByUsername(ctx context.Context, username string) (*model.UserInfo, error)
	// FindActiveByUuids 批量查找状态正常的用户
	FindActiveByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	// Create 创建用户
	Create(ctx context.Context, user *model.UserInfo) error
	// UpdateStatus 更新用户状态（启用/禁用）
	UpdateStatus(ctx context.Context, uuid string, status int8) error
}

// FollowRepository 关注关系数据访问接口
type FollowRepository interface {
	// Create 建立关注，已存在时不报错
	Create(ctx context.Context, explorerId, exploringId string) error
	// Delete 取消关注，返回删除行数
	Delete(ctx context.Context, explorerId, exploringId string) (int64, error)
	// Exists explorer 是否关注了 exploring
	Exists(ctx context.Context, explorerId, exploringId string) (bool, error)
	// FindExploringIds 用户关注的人
	FindExploringIds(ctx context.Context, userId string) ([]string, error)
	// FindExplorerIds 关注用户的人
	FindExplorerIds(ctx context.Context, userId string) ([]string, error)
}

// PartnerLastMessage 会话列表聚合结果：对端用户与最后一条消息的主键
type PartnerLastMessage struct {
	PartnerId string
	LastId    uint
}

// MessageRepository 私信数据访问接口
// 所有查询默认排除软删除的消息
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	FindByUuid(ctx context.Context, uuid string) (*model.Message, error)
	FindByIds(ctx context.Context, ids []uint) ([]model.Message, error)
	// FindConversation 两人之间的普通消息，按时间倒序分页
	FindConversation(ctx context.Context, userA, userB string, offset, limit int) ([]model.Message, error)
	CountConversation(ctx context.Context, userA, userB string) (int64, error)
	// FindRequestMessages 请求中的消息，按时间正序
	FindRequestMessages(ctx context.Context, senderId, receiverId string) ([]model.Message, error)
	// CountUnread 未读普通消息数，senderId 为空表示不限发送者
	CountUnread(ctx context.Context, receiverId, senderId string) (int64, error)
	// CountUnreadBySender 按发送者分组的未读数
	CountUnreadBySender(ctx context.Context, receiverId string) (map[string]int64, error)
	// MarkAllAsRead 标记 senderId 发给 receiverId 的未读普通消息为已读，请求消息不受影响，返回更新行数
	MarkAllAsRead(ctx context.Context, receiverId, senderId string, now time.Time) (int64, error)
	// ReleaseRequestMessages 请求被接受：请求消息转为普通消息
	ReleaseRequestMessages(ctx context.Context, senderId, receiverId string) (int64, error)
	// DeclineRequestMessages 请求被拒绝：请求消息标记 declined 并软删除
	DeclineRequestMessages(ctx context.Context, senderId, receiverId string, now time.Time) (int64, error)
	// SoftDelete 软删除单条消息
	SoftDelete(ctx context.Context, uuid string) error
	// FindLatestPerPartner 每个会话对端的最后一条普通消息
	FindLatestPerPartner(ctx context.Context, userId string) ([]PartnerLastMessage, error)
}

// MessageRequestRepository 消息请求数据访问接口
type MessageRequestRepository interface {
	FindBySenderAndReceiver(ctx context.Context, senderId, receiverId string) (*model.MessageRequest, error)
	// UpsertPending 原子地创建 pending 请求或在 pending 时累加计数、刷新预览
	// accepted/declined 的记录保持不变
	UpsertPending(ctx context.Context, senderId, receiverId, preview string, now time.Time) error
	// UpdateMessagePointers 更新首/尾消息指针，firstMessageId 为空时不修改
	UpdateMessagePointers(ctx context.Context, id uint, firstMessageId, lastMessageId string) error
	// TransitStatus 仅当当前状态为 from 时改为 to，返回更新行数
	TransitStatus(ctx context.Context, id uint, from, to string) (int64, error)
	// FindPendingForReceiver 发给 receiverId 的待处理请求（仅限正常状态的发起者），按最近消息倒序
	FindPendingForReceiver(ctx context.Context, receiverId string) ([]model.MessageRequest, error)
	CountPendingForReceiver(ctx context.Context, receiverId string) (int64, error)
}

// Repositories 聚合所有 Repository 实例
type Repositories struct {
	db             *gorm.DB
	User           UserRepository
	Follow         FollowRepository
	Message        MessageRepository
	MessageRequest MessageRequestRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		User:           NewUserRepository(db),
		Follow:         NewFollowRepository(db),
		Message:        NewMessageRepository(db),
		MessageRequest: NewMessageRequestRepository(db),
	}
}

// Transaction 在数据库事务中执行 fn
// fn 内只能使用 txRepos，返回错误时整体回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
