package constants

import "time"

const (
	MESSAGE_MAX_LENGTH         = 1000 // 消息正文最大长度（trim 之后按字符计）
	DEFAULT_PAGE_LIMIT         = 50   // 会话分页默认条数
	MAX_PAGE_LIMIT             = 100  // 会话分页最大条数
	REDIS_TIMEOUT              = 30   // 关系/资料缓存过期时间（分钟）
	REFRESH_TOKEN_EXPIRY_HOURS = 168  // Refresh Token 有效期（小时），168小时 = 7天
	CACHE_WORKER_NUM           = 15   // 缓存异步 Worker 数量
	CACHE_TASK_CHAN_SIZE       = 3000 // 缓存任务通道大小
)

// gin.Context 中存放的键
const (
	CTX_USER_ID = "user_id"
)

// Redis 键前缀
const (
	USER_EXPLORING_KEY = "user_exploring:" // 用户关注的人（Set）
	USER_EXPLORERS_KEY = "user_explorers:" // 关注用户的人（Set）
	RELATION_GEN_KEY   = "relation_gen:"   // 关系缓存版本号，失效时更新
	USER_INFO_KEY      = "user_info:"      // 用户资料（JSON）
	USER_TOKEN_KEY     = "user_token:"     // 当前有效的 refresh token id
	SEND_RATE_KEY      = "rate:send:"      // 发送限流计数
	IDEMPOTENCY_KEY    = "idem:send:"      // 发送幂等键
)

const (
	EVENT_PUBLISH_TIMEOUT = 3 * time.Second // 单条事件投递超时
	EVENT_CHANNEL_SIZE    = 1024            // 进程内事件通道大小
)
