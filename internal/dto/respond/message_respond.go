package respond

import "time"

// MessageRespond 私信
// 使用位置:
//   - internal/service/message: Send, GetConversation, GetRequestMessages, GetConversations
type MessageRespond struct {
	Id            string     `json:"id"`
	SenderId      string     `json:"senderId"`
	ReceiverId    string     `json:"receiverId"`
	Body          string     `json:"body"`
	MessageType   string     `json:"messageType"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"readAt"`
	IsRequest     bool       `json:"isRequest"`
	RequestStatus *string    `json:"requestStatus"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// SendMessageRespond 发送结果，IsRequest 表示是否被拦截为消息请求
type SendMessageRespond struct {
	Message   MessageRespond `json:"message"`
	IsRequest bool           `json:"isRequest"`
}

// Pagination 会话分页信息
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// ConversationPageRespond 两人之间的会话，Messages 按时间正序
type ConversationPageRespond struct {
	Messages   []MessageRespond `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// ConversationRespond 会话列表中的一项
type ConversationRespond struct {
	Partner     UserBriefRespond `json:"partner"`
	LastMessage MessageRespond   `json:"lastMessage"`
	UnreadCount int64            `json:"unreadCount"`
}
