package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wanderlog/internal/dao/mysql/repository"
	myredis "wanderlog/internal/dao/redis"
	"wanderlog/internal/dto/request"
	"wanderlog/internal/dto/respond"
	"wanderlog/internal/model"
	"wanderlog/pkg/constants"
	"wanderlog/pkg/enum/user_info/user_status_enum"
	"wanderlog/pkg/errorx"
	"wanderlog/pkg/util/jwt"
	"wanderlog/pkg/util/random"

	"go.uber.org/zap"
)

// FollowCounter 主页上的关注数/粉丝数来源
type FollowCounter interface {
	Counts(ctx context.Context, userId string) (exploring int, explorers int, err error)
}

// userInfoService 用户业务逻辑实现
// cache 为 nil 时不缓存资料，也不登记 refresh token
type userInfoService struct {
	repos   *repository.Repositories
	cache   myredis.AsyncCacheService
	follows FollowCounter
}

// NewUserService 构造函数
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService, follows FollowCounter) *userInfoService {
	return &userInfoService{repos: repos, cache: cache, follows: follows}
}

// Register 注册，用户名唯一
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error) {
	user := &model.UserInfo{
		Uuid:        random.NewUserId(),
		Username:    req.Username,
		Nickname:    req.Nickname,
		Email:       req.Email,
		RawPassword: req.Password,
		Status:      user_status_enum.NORMAL,
	}
	if err := u.repos.User.Create(ctx, user); err != nil {
		if errorx.IsConflict(err) {
			return nil, errorx.New(errorx.CodeUserExist, "username already taken")
		}
		zap.L().Error("create user failed", zap.String("username", req.Username), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RegisterRespond{
		Uuid:      user.Uuid,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CreatedAt: formatDate(user.CreatedAt),
	}, nil
}

// Login 密码登录，签发双 Token
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByUsername(ctx, req.Username)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user does not exist")
		}
		zap.L().Error("find user failed", zap.String("username", req.Username), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if user.Status == user_status_enum.DISABLE {
		return nil, errorx.New(errorx.CodeForbidden, "account is disabled")
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "incorrect password")
	}

	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("generate refresh token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 登记最新的 Refresh Token ID，旧设备刷新时被拒绝
	if u.cache != nil {
		if err := u.cache.Set(ctx, constants.USER_TOKEN_KEY+user.Uuid, tokenID, jwt.RefreshTokenExpiry()); err != nil {
			zap.L().Error("store token id failed", zap.String("user", user.Uuid), zap.Error(err))
		}
	}

	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		Nickname:     user.Nickname,
		Avatar:       user.Avatar,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetProfile 用户主页，基础资料走缓存，关注数实时计算
func (u *userInfoService) GetProfile(ctx context.Context, uuid string) (*respond.UserProfileRespond, error) {
	profile, err := u.cachedProfile(ctx, uuid)
	if err != nil {
		return nil, err
	}
	exploring, explorers, err := u.follows.Counts(ctx, uuid)
	if err != nil {
		zap.L().Error("count follows failed", zap.String("user", uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	profile.ExploringCount = exploring
	profile.ExplorersCount = explorers
	return profile, nil
}

func (u *userInfoService) cachedProfile(ctx context.Context, uuid string) (*respond.UserProfileRespond, error) {
	key := constants.USER_INFO_KEY + uuid
	if u.cache != nil {
		raw, err := u.cache.Get(ctx, key)
		if err != nil {
			zap.L().Warn("read profile cache failed", zap.String("key", key), zap.Error(err))
		} else if raw != "" {
			var profile respond.UserProfileRespond
			if err := json.Unmarshal([]byte(raw), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	user, err := u.repos.User.FindActiveByUuid(ctx, uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user not found")
		}
		zap.L().Error("find user failed", zap.String("user", uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	profile := &respond.UserProfileRespond{
		Uuid:      user.Uuid,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		CreatedAt: formatDate(user.CreatedAt),
	}

	if u.cache != nil {
		if raw, err := json.Marshal(profile); err == nil {
			u.cache.SubmitTask(func() {
				if err := u.cache.Set(context.Background(), key, string(raw), constants.REDIS_TIMEOUT*time.Minute); err != nil {
					zap.L().Warn("write profile cache failed", zap.String("key", key), zap.Error(err))
				}
			})
		}
	}
	return profile, nil
}

func formatDate(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("%d.%d.%d", year, month, day)
}
