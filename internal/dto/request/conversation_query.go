package request

// ConversationQuery GET /messages/:userId 的分页参数
type ConversationQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// UnreadCountQuery GET /messages/unread/count，from 为空表示全部发送者
type UnreadCountQuery struct {
	From string `form:"from"`
}
