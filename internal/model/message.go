package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message 私信，对应 message 表
// 删除一律走 gorm.Model 的 DeletedAt 软删除，默认查询自动过滤
// IsRequest/RequestStatus 由会话状态推导，只在 service/message 中统一赋值
type Message struct {
	gorm.Model
	Uuid          string         `gorm:"column:uuid;uniqueIndex;type:varchar(24);not null;comment:消息id(雪花)"`
	SenderId      string         `gorm:"column:sender_id;index:idx_message_pair,priority:1;type:char(20);not null;comment:发送者"`
	ReceiverId    string         `gorm:"column:receiver_id;index:idx_message_pair,priority:2;index;type:char(20);not null;comment:接收者"`
	Body          string         `gorm:"column:body;type:varchar(1000);not null;comment:消息内容"`
	MessageType   string         `gorm:"column:message_type;type:varchar(10);not null;default:text;comment:text/image/file"`
	IsRead        bool           `gorm:"column:is_read;not null;default:false;comment:是否已读"`
	ReadAt        sql.NullTime   `gorm:"column:read_at;comment:已读时间"`
	IsRequest     bool           `gorm:"column:is_request;not null;default:false;comment:是否属于未处理的消息请求"`
	RequestStatus sql.NullString `gorm:"column:request_status;type:varchar(10);comment:pending/accepted/declined"`
}

func (Message) TableName() string {
	return "message"
}
