package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户主页与关注路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/users")
	{
		userGroup.GET("/:userId", rt.handlers.User.GetProfile)
		userGroup.POST("/:userId/explore", rt.handlers.User.Explore)
		userGroup.DELETE("/:userId/explore", rt.handlers.User.Unexplore)
		userGroup.GET("/:userId/friendship", rt.handlers.User.Friendship) // 是否互关
	}
}
