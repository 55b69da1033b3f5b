package middleware

import (
	"net/http"
	"time"

	myredis "wanderlog/internal/dao/redis"
	"wanderlog/pkg/constants"
	"wanderlog/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeader 客户端重试发送时携带的幂等键
const IdempotencyHeader = "Idempotency-Key"

// SendRateLimit 按发送者做固定窗口限流
// 缓存不可用时放行，只记录日志
func SendRateLimit(cache myredis.CacheService, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		userId := c.GetString(constants.CTX_USER_ID)
		n, err := cache.IncrWithExpire(c.Request.Context(), constants.SEND_RATE_KEY+userId, window)
		if err != nil {
			zap.L().Warn("send rate limit skipped", zap.String("user_id", userId), zap.Error(err))
			c.Next()
			return
		}
		if n > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"code":    errorx.CodeTooManyRequests,
				"message": "too many messages, slow down",
			})
			return
		}
		c.Next()
	}
}

// Idempotency 用 SETNX 占用 Idempotency-Key，重复提交返回 409
// 未带该 Header 的请求不受影响；处理失败（非 2xx）时释放键，允许客户端重试
func Idempotency(cache myredis.CacheService, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		redisKey := constants.IDEMPOTENCY_KEY + c.GetString(constants.CTX_USER_ID) + ":" + key
		ok, err := cache.SetNX(c.Request.Context(), redisKey, "1", ttl)
		if err != nil {
			zap.L().Warn("idempotency check skipped", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"code":    errorx.CodeConflict,
				"message": "duplicate request",
			})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cache.Delete(c.Request.Context(), redisKey); err != nil {
				zap.L().Warn("release idempotency key failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
