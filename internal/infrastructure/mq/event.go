package mq

import "time"

// 事件类型
const (
	EventMessageSent     = "message.sent"
	EventRequestCreated  = "message_request.created"
	EventRequestUpdated  = "message_request.updated"
	EventRequestAccepted = "message_request.accepted"
	EventRequestDeclined = "message_request.declined"
)

// Event 私信领域事件，在事务提交后投递
// 下游（推送网关、通知服务）按 ReceiverId 分区消费
type Event struct {
	Type       string    `json:"type"`
	SenderId   string    `json:"senderId"`
	ReceiverId string    `json:"receiverId"`
	MessageId  string    `json:"messageId,omitempty"`
	IsRequest  bool      `json:"isRequest"`
	Count      int64     `json:"count,omitempty"` // accept/decline 影响的消息数
	OccurredAt time.Time `json:"occurredAt"`
}
