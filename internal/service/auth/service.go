// Package auth 提供认证相关的业务逻辑
// 处理 Refresh Token 换取 Access Token
package auth

import (
	"context"

	myredis "wanderlog/internal/dao/redis"
	"wanderlog/pkg/constants"
	"wanderlog/pkg/errorx"
	"wanderlog/pkg/util/jwt"

	"go.uber.org/zap"
)

// Service 认证服务实现
// cache 为 nil 时不做单点互踢校验
type Service struct {
	cache myredis.CacheService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{cache: cache}
}

// Refresh 校验 Refresh Token 并签发新的 Access Token
// Redis 中登记的 token id 与请求不一致说明账号已在其他设备登录
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return "", errorx.New(errorx.CodeUnauthorized, "refresh token expired or invalid")
	}
	if claims.Subject != jwt.SubjectRefreshToken {
		return "", errorx.New(errorx.CodeUnauthorized, "a refresh token is required")
	}

	if s.cache != nil {
		valid, err := s.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
		if err != nil {
			zap.L().Error("validate token id failed", zap.String("user", claims.UserID), zap.Error(err))
			return "", errorx.ErrServerBusy
		}
		if !valid {
			return "", errorx.New(errorx.CodeUnauthorized, "session has been replaced by another login")
		}
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return accessToken, nil
}

// ValidateTokenID 验证用户的 Token ID 是否为最近一次登录签发
func (s *Service) ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, constants.USER_TOKEN_KEY+userID)
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}
