package repository

import (
	"context"
	"time"

	"wanderlog/internal/model"
	"wanderlog/pkg/enum/message_request/request_status_enum"
	"wanderlog/pkg/enum/user_info/user_status_enum"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type messageRequestRepository struct {
	db *gorm.DB
}

// NewMessageRequestRepository 创建消息请求 Repository
func NewMessageRequestRepository(db *gorm.DB) MessageRequestRepository {
	return &messageRequestRepository{db: db}
}

func (r *messageRequestRepository) FindBySenderAndReceiver(ctx context.Context, senderId, receiverId string) (*model.MessageRequest, error) {
	var request model.MessageRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderId, receiverId).
		First(&request).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query message request %s -> %s", senderId, receiverId)
	}
	return &request, nil
}

// UpsertPending 基于 (sender_id, receiver_id) 唯一索引的 insert-or-update
// 并发的首次发送只会产生一条记录，后到者走更新分支
// 更新表达式只在 status=pending 时生效，终态记录原样保留
func (r *messageRequestRepository) UpsertPending(ctx context.Context, senderId, receiverId, preview string, now time.Time) error {
	request := model.MessageRequest{
		SenderId:        senderId,
		ReceiverId:      receiverId,
		Status:          request_status_enum.PENDING,
		MessageCount:    1,
		LastMessage:     preview,
		LastMessageTime: now,
	}
	pending := request_status_enum.PENDING
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sender_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"message_count": gorm.Expr(
				"CASE WHEN message_request.status = ? THEN message_request.message_count + 1 ELSE message_request.message_count END", pending),
			"last_message": gorm.Expr(
				"CASE WHEN message_request.status = ? THEN ? ELSE message_request.last_message END", pending, preview),
			"last_message_time": gorm.Expr(
				"CASE WHEN message_request.status = ? THEN ? ELSE message_request.last_message_time END", pending, now),
			"updated_at": now,
		}),
	}).Create(&request).Error
	if err != nil {
		return wrapDBErrorf(err, "upsert message request %s -> %s", senderId, receiverId)
	}
	return nil
}

func (r *messageRequestRepository) UpdateMessagePointers(ctx context.Context, id uint, firstMessageId, lastMessageId string) error {
	updates := map[string]interface{}{"last_message_id": lastMessageId}
	if firstMessageId != "" {
		updates["first_message_id"] = firstMessageId
	}
	err := r.db.WithContext(ctx).Model(&model.MessageRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return wrapDBErrorf(err, "update message request pointers id=%d", id)
	}
	return nil
}

// TransitStatus 条件更新，保证 pending -> 终态 只发生一次
func (r *messageRequestRepository) TransitStatus(ctx context.Context, id uint, from, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.MessageRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "update message request status id=%d %s -> %s", id, from, to)
	}
	return result.RowsAffected, nil
}

// pendingForReceiver 待处理请求，且发起者仍是正常用户
func pendingForReceiver(receiverId string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN user_info ON user_info.uuid = message_request.sender_id AND user_info.status = ? AND user_info.deleted_at IS NULL",
				user_status_enum.NORMAL).
			Where("message_request.receiver_id = ? AND message_request.status = ?", receiverId, request_status_enum.PENDING)
	}
}

func (r *messageRequestRepository) FindPendingForReceiver(ctx context.Context, receiverId string) ([]model.MessageRequest, error) {
	var requests []model.MessageRequest
	err := r.db.WithContext(ctx).
		Select("message_request.*").
		Scopes(pendingForReceiver(receiverId)).
		Order("message_request.last_message_time DESC").
		Find(&requests).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query pending requests receiver=%s", receiverId)
	}
	return requests, nil
}

func (r *messageRequestRepository) CountPendingForReceiver(ctx context.Context, receiverId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MessageRequest{}).
		Scopes(pendingForReceiver(receiverId)).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count pending requests receiver=%s", receiverId)
	}
	return count, nil
}
