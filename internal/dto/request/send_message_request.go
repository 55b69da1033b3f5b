package request

// SendMessageRequest 发送私信请求
// 使用位置:
//   - internal/handler/message_handler.go: Send
//
// message 的 trim 与长度校验在 service 层完成，这里只保证字段存在
type SendMessageRequest struct {
	ReceiverId  string `json:"receiverId" binding:"required"`
	Message     string `json:"message" binding:"required"`
	MessageType string `json:"messageType" binding:"omitempty,oneof=text image file"`
}
