package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由（无需登录）
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.User.Register) // 注册
		authGroup.POST("/login", rt.handlers.User.Login)       // 密码登录
		authGroup.POST("/refresh", rt.handlers.Auth.Refresh)   // 刷新 Access Token
	}
}
