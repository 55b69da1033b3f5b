package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信路由（需要认证）
// 静态路径与 /:userId、/:messageId 同级，gin 优先匹配静态段
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Message
	messageGroup := rg.Group("/messages")
	{
		messageGroup.GET("/conversations", h.GetConversations)
		messageGroup.GET("/requests", h.GetRequests)
		messageGroup.GET("/requests/count", h.CountRequests)
		messageGroup.GET("/requests/:senderId", h.GetRequestMessages)
		messageGroup.POST("/requests/:senderId/accept", h.AcceptRequest)
		messageGroup.POST("/requests/:senderId/decline", h.DeclineRequest)
		messageGroup.GET("/unread/count", h.GetUnreadCount)
		messageGroup.GET("/:userId", h.GetConversation) // 同时标记已读
		messageGroup.POST("/send", rt.withSendGuards(h.Send)...)
		messageGroup.PUT("/mark-read/:userId", h.MarkRead)
		messageGroup.DELETE("/:messageId", h.DeleteMessage)
	}
}

func (rt *Router) withSendGuards(h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(rt.sendGuards)+1)
	chain = append(chain, rt.sendGuards...)
	return append(chain, h)
}
