// Package handler 提供 HTTP 请求处理器
// 本文件处理 /messages 下的私信接口
package handler

import (
	"wanderlog/internal/dto/request"
	"wanderlog/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler 私信请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// GetConversations 会话列表
// GET /messages/conversations
func (h *MessageHandler) GetConversations(c *gin.Context) {
	list, err := h.messageSvc.GetConversations(c.Request.Context(), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"conversations": list})
}

// GetRequests 待处理的消息请求
// GET /messages/requests
func (h *MessageHandler) GetRequests(c *gin.Context) {
	list, err := h.messageSvc.GetRequestsForUser(c.Request.Context(), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"requests": list})
}

// CountRequests 待处理请求数
// GET /messages/requests/count
func (h *MessageHandler) CountRequests(c *gin.Context) {
	n, err := h.messageSvc.CountPendingRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"count": n})
}

// GetRequestMessages 某个发起者的请求消息
// GET /messages/requests/:senderId
func (h *MessageHandler) GetRequestMessages(c *gin.Context) {
	list, err := h.messageSvc.GetRequestMessages(c.Request.Context(), c.Param("senderId"), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"messages": list})
}

// AcceptRequest POST /messages/requests/:senderId/accept
func (h *MessageHandler) AcceptRequest(c *gin.Context) {
	n, err := h.messageSvc.AcceptRequest(c.Request.Context(), currentUser(c), c.Param("senderId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"message": "Message request accepted", "releasedCount": n})
}

// DeclineRequest POST /messages/requests/:senderId/decline
func (h *MessageHandler) DeclineRequest(c *gin.Context) {
	if _, err := h.messageSvc.DeclineRequest(c.Request.Context(), currentUser(c), c.Param("senderId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"message": "Message request declined"})
}

// GetUnreadCount GET /messages/unread/count?from=
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	var query request.UnreadCountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		HandleParamError(c, err)
		return
	}
	n, err := h.messageSvc.GetUnreadCount(c.Request.Context(), currentUser(c), query.From)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"unreadCount": n})
}

// GetConversation 与某个用户的会话，顺带把对方发来的消息标为已读
// GET /messages/:userId?page=&limit=
func (h *MessageHandler) GetConversation(c *gin.Context) {
	var query request.ConversationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		HandleParamError(c, err)
		return
	}
	ctx := c.Request.Context()
	me, partner := currentUser(c), c.Param("userId")

	if _, err := h.messageSvc.MarkAllAsRead(ctx, me, partner); err != nil {
		zap.L().Warn("mark conversation read failed", zap.String("user_id", me), zap.String("partner", partner), zap.Error(err))
	}
	page, err := h.messageSvc.GetConversation(ctx, me, partner, query.Page, query.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"messages": page.Messages, "pagination": page.Pagination})
}

// Send 发送私信
// POST /messages/send
// 请求体: request.SendMessageRequest
func (h *MessageHandler) Send(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	res, err := h.messageSvc.Send(c.Request.Context(), currentUser(c), req.ReceiverId, req.Message, req.MessageType)
	if err != nil {
		HandleError(c, err)
		return
	}
	text := "Message sent"
	if res.IsRequest {
		text = "Message request sent"
	}
	HandleSuccess(c, gin.H{"message": text, "data": res.Message, "isRequest": res.IsRequest})
}

// MarkRead PUT /messages/mark-read/:userId
func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.messageSvc.MarkAllAsRead(c.Request.Context(), currentUser(c), c.Param("userId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"updatedCount": n})
}

// DeleteMessage DELETE /messages/:messageId
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	if err := h.messageSvc.DeleteMessage(c.Request.Context(), currentUser(c), c.Param("messageId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"message": "Message deleted"})
}
