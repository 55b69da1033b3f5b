// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"net/http"

	"wanderlog/internal/handler"
	"wanderlog/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router 路由管理器
// sendGuards 挂在 POST /messages/send 上，通常是限流与幂等中间件
type Router struct {
	handlers   *handler.Handlers
	sendGuards []gin.HandlerFunc
}

func NewRouter(handlers *handler.Handlers, sendGuards ...gin.HandlerFunc) *Router {
	return &Router{handlers: handlers, sendGuards: sendGuards}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rt.RegisterAuthRoutes(r.Group("")) // 公开路由

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	rt.RegisterUserRoutes(authed)
	rt.RegisterMessageRoutes(authed)
}
