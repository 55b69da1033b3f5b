// Package handler 提供 HTTP 请求处理器
// 本文件处理用户注册登录、主页与关注
package handler

import (
	"wanderlog/internal/dto/request"
	"wanderlog/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户请求处理器
type UserHandler struct {
	userSvc     service.UserService
	relationSvc service.RelationService
}

func NewUserHandler(userSvc service.UserService, relationSvc service.RelationService) *UserHandler {
	return &UserHandler{userSvc: userSvc, relationSvc: relationSvc}
}

// Register 用户注册
// POST /auth/register
// 请求体: request.RegisterRequest
func (h *UserHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, gin.H{"user": data})
}

// Login 密码登录
// POST /auth/login
// 响应: 用户信息 + 双 Token
func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"user": data})
}

// GetProfile GET /users/:userId
func (h *UserHandler) GetProfile(c *gin.Context) {
	data, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"user": data})
}

// Explore 关注
// POST /users/:userId/explore
func (h *UserHandler) Explore(c *gin.Context) {
	if err := h.relationSvc.Explore(c.Request.Context(), currentUser(c), c.Param("userId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"message": "Exploring"})
}

// Unexplore 取消关注
// DELETE /users/:userId/explore
func (h *UserHandler) Unexplore(c *gin.Context) {
	if err := h.relationSvc.Unexplore(c.Request.Context(), currentUser(c), c.Param("userId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"message": "No longer exploring"})
}

// Friendship GET /users/:userId/friendship
func (h *UserHandler) Friendship(c *gin.Context) {
	ok := h.relationSvc.AreFriends(c.Request.Context(), currentUser(c), c.Param("userId"))
	HandleSuccess(c, gin.H{"areFriends": ok})
}
