package model

import (
	"time"

	"gorm.io/gorm"
)

// MessageRequest 非互关用户之间的消息请求，每个有序 (sender, receiver) 至多一条
// LastMessage/LastMessageTime 是冗余预览，每次发送都会刷新，条数以 MessageCount 为准
type MessageRequest struct {
	gorm.Model
	SenderId        string    `gorm:"column:sender_id;uniqueIndex:idx_request_pair;type:char(20);not null;comment:发起者"`
	ReceiverId      string    `gorm:"column:receiver_id;uniqueIndex:idx_request_pair;index;type:char(20);not null;comment:接收者"`
	Status          string    `gorm:"column:status;type:varchar(10);not null;comment:pending/accepted/declined"`
	FirstMessageId  string    `gorm:"column:first_message_id;type:varchar(24);comment:第一条消息id"`
	LastMessageId   string    `gorm:"column:last_message_id;type:varchar(24);comment:最后一条消息id"`
	MessageCount    int       `gorm:"column:message_count;not null;default:0;comment:请求期间的消息数"`
	LastMessage     string    `gorm:"column:last_message;type:varchar(1000);comment:最后一条消息预览"`
	LastMessageTime time.Time `gorm:"column:last_message_time;index;comment:最后一条消息时间"`
}

func (MessageRequest) TableName() string {
	return "message_request"
}
