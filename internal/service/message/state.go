package message

import (
	"database/sql"

	"wanderlog/internal/model"
	"wanderlog/pkg/enum/message_request/request_status_enum"
)

// ConversationState 有序 (sender, receiver) 之间的会话状态，每次发送只解析一次
type ConversationState int

const (
	StateNone ConversationState = iota // 非互关且从未发起过请求
	StateMutual
	StatePendingRequest
	StateAccepted
	StateDeclined
)

func (s ConversationState) String() string {
	switch s {
	case StateMutual:
		return "mutual"
	case StatePendingRequest:
		return "pending"
	case StateAccepted:
		return "accepted"
	case StateDeclined:
		return "declined"
	default:
		return "none"
	}
}

// stateOfRequest 由请求记录推导状态，req 为 nil 表示不存在
func stateOfRequest(req *model.MessageRequest) ConversationState {
	if req == nil {
		return StateNone
	}
	switch req.Status {
	case request_status_enum.PENDING:
		return StatePendingRequest
	case request_status_enum.ACCEPTED:
		return StateAccepted
	case request_status_enum.DECLINED:
		return StateDeclined
	}
	return StateNone
}

// canWrite 该状态下是否允许直接写入消息
// None 需先建立 pending 请求，Declined 永远拒绝
func (s ConversationState) canWrite() bool {
	return s == StateMutual || s == StateAccepted || s == StatePendingRequest
}

// applyTo 消息的 IsRequest/RequestStatus 只在这里赋值
func (s ConversationState) applyTo(msg *model.Message) {
	if s == StatePendingRequest {
		msg.IsRequest = true
		msg.RequestStatus = sql.NullString{String: request_status_enum.PENDING, Valid: true}
		return
	}
	msg.IsRequest = false
	msg.RequestStatus = sql.NullString{}
}
