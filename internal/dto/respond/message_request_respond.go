package respond

import "time"

// MessageRequestRespond 待处理的消息请求
// 使用位置:
//   - internal/service/message/query.go: GetRequestsForUser
type MessageRequestRespond struct {
	Id              uint             `json:"id"`
	Sender          UserBriefRespond `json:"sender"`
	Status          string           `json:"status"`
	MessageCount    int              `json:"messageCount"`
	LastMessage     string           `json:"lastMessage"`
	LastMessageTime time.Time        `json:"lastMessageTime"`
	CreatedAt       time.Time        `json:"createdAt"`
}
