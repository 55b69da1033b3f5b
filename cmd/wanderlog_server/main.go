package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wanderlog/internal/config"
	dao "wanderlog/internal/dao/mysql"
	myredis "wanderlog/internal/dao/redis"
	"wanderlog/internal/handler"
	"wanderlog/internal/https_server"
	"wanderlog/internal/infrastructure/logger"
	"wanderlog/internal/infrastructure/mq"
	"wanderlog/internal/service"
	"wanderlog/pkg/util/jwt"
	"wanderlog/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()

	// 3. 参数校验翻译
	if err := handler.InitTrans(conf.Locale); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 4. 消息 id 生成器
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 5. 初始化数据库
	dao.Init()
	zap.L().Info("database ready", zap.String("driver", conf.Driver))

	// 6. 初始化 Redis（可选）
	var cache myredis.AsyncCacheService
	if conf.RedisConfig.Enabled {
		if err := myredis.Init(context.Background()); err != nil {
			zap.L().Fatal("connect redis failed", zap.Error(err))
		}
		cache = myredis.GetCacheService()
		zap.L().Info("redis ready")
	} else {
		zap.L().Warn("redis disabled, send rate limit and idempotency are off")
	}

	// 7. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.AccessTokenExpiry, conf.RefreshTokenExpiry)

	// 8. 事件投递
	publisher := mq.NewPublisher(&conf.KafkaConfig)
	zap.L().Info("event publisher ready", zap.String("mode", conf.EventMode))

	// 9. Service / Handler 依赖注入
	svc := service.NewServices(dao.Repos, cache, publisher, conf.MessageConfig)
	engine := https_server.Init(conf, handler.NewHandlers(svc), cache)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zap.L().Error("close event publisher failed", zap.Error(err))
	}
	if err := myredis.Close(); err != nil {
		zap.L().Error("close redis failed", zap.Error(err))
	}
	zap.L().Info("server exited")
}
