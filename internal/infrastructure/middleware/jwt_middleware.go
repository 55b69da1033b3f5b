package middleware

import (
	"net/http"
	"strings"

	"wanderlog/pkg/constants"
	"wanderlog/pkg/errorx"
	"wanderlog/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    errorx.CodeUnauthorized,
		"message": msg,
	})
}

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户 ID 存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "authorization header must be a Bearer token")
			return
		}

		// 3. 验证 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			unauthorized(c, "token expired or invalid")
			return
		}

		// 4. 只接受 Access Token
		if claims.Subject != jwt.SubjectAccessToken {
			unauthorized(c, "an access token is required")
			return
		}

		c.Set(constants.CTX_USER_ID, claims.UserID)
		c.Next()
	}
}
