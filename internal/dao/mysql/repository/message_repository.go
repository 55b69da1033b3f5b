package repository

import (
	"context"
	"time"

	"wanderlog/internal/model"
	"wanderlog/pkg/enum/message_request/request_status_enum"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建私信 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// between 限定两人之间（双向）的消息
func between(userA, userB string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA)
	}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBErrorf(err, "create message %s -> %s", message.SenderId, message.ReceiverId)
	}
	return nil
}

func (r *messageRepository) FindByUuid(ctx context.Context, uuid string) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).First(&message, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query message uuid=%s", uuid)
	}
	return &message, nil
}

func (r *messageRepository) FindByIds(ctx context.Context, ids []uint) ([]model.Message, error) {
	var messages []model.Message
	if len(ids) == 0 {
		return messages, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "batch query messages")
	}
	return messages, nil
}

func (r *messageRepository) FindConversation(ctx context.Context, userA, userB string, offset, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Scopes(between(userA, userB)).
		Where("is_request = ?", false).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query conversation %s <-> %s", userA, userB)
	}
	return messages, nil
}

func (r *messageRepository) CountConversation(ctx context.Context, userA, userB string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Scopes(between(userA, userB)).
		Where("is_request = ?", false).
		Count(&total).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count conversation %s <-> %s", userA, userB)
	}
	return total, nil
}

func (r *messageRepository) FindRequestMessages(ctx context.Context, senderId, receiverId string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND is_request = ?", senderId, receiverId, true).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query request messages %s -> %s", senderId, receiverId)
	}
	return messages, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverId, senderId string) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ? AND is_request = ?", receiverId, false, false)
	if senderId != "" {
		db = db.Where("sender_id = ?", senderId)
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count unread receiver=%s sender=%s", receiverId, senderId)
	}
	return count, nil
}

func (r *messageRepository) CountUnreadBySender(ctx context.Context, receiverId string) (map[string]int64, error) {
	var rows []struct {
		SenderId string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("sender_id, COUNT(*) AS total").
		Where("receiver_id = ? AND is_read = ? AND is_request = ?", receiverId, false, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "count unread by sender receiver=%s", receiverId)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderId] = row.Total
	}
	return counts, nil
}

// MarkAllAsRead 只更新未读消息，重复调用返回 0
func (r *messageRepository) MarkAllAsRead(ctx context.Context, receiverId, senderId string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ? AND is_request = ?", receiverId, senderId, false, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "mark read receiver=%s sender=%s", receiverId, senderId)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) ReleaseRequestMessages(ctx context.Context, senderId, receiverId string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_request = ?", senderId, receiverId, true).
		Updates(map[string]interface{}{
			"is_request":     false,
			"request_status": request_status_enum.ACCEPTED,
		})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "release request messages %s -> %s", senderId, receiverId)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) DeclineRequestMessages(ctx context.Context, senderId, receiverId string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_request = ?", senderId, receiverId, true).
		Updates(map[string]interface{}{
			"request_status": request_status_enum.DECLINED,
			"deleted_at":     now,
		})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "decline request messages %s -> %s", senderId, receiverId)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, uuid string) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Message{})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "delete message uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "delete message uuid=%s", uuid)
	}
	return nil
}

// FindLatestPerPartner 以对端用户分组，取每组最大主键作为最后一条消息
func (r *messageRepository) FindLatestPerPartner(ctx context.Context, userId string) ([]PartnerLastMessage, error) {
	var rows []PartnerLastMessage
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id, MAX(id) AS last_id", userId).
		Where("(sender_id = ? OR receiver_id = ?) AND is_request = ?", userId, userId, false).
		Group("partner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query conversations of %s", userId)
	}
	return rows, nil
}
