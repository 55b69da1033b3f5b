// Package https_server 创建 Gin 引擎并配置中间件与路由
package https_server

import (
	"time"

	"wanderlog/internal/config"
	myredis "wanderlog/internal/dao/redis"
	"wanderlog/internal/handler"
	"wanderlog/internal/infrastructure/logger"
	"wanderlog/internal/infrastructure/middleware"
	"wanderlog/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 Gin 引擎
// cache 为 nil 时不挂载发送限流与幂等中间件
// 中间件顺序：日志、恢复、指标、CORS、可选的 HTTPS 重定向
func Init(conf *config.Config, handlers *handler.Handlers, cache myredis.CacheService) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.PrometheusMiddleware(conf.AppName))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.IdempotencyHeader}
	engine.Use(cors.New(corsConfig))

	if conf.ForceTLS {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	var sendGuards []gin.HandlerFunc
	if cache != nil {
		msgConf := conf.MessageConfig
		sendGuards = append(sendGuards,
			middleware.SendRateLimit(cache, msgConf.SendRateLimit, time.Duration(msgConf.SendRateWindow)*time.Second),
			middleware.Idempotency(cache, time.Duration(msgConf.IdempotencyTTL)*time.Second),
		)
	}

	rt := router.NewRouter(handlers, sendGuards...)
	rt.RegisterRoutes(engine)
	return engine
}
