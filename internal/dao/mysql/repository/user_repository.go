package repository

import (
	"context"

	"wanderlog/internal/model"
	"wanderlog/pkg/enum/user_info/user_status_enum"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query user uuid=%s", uuid)
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	err := r.db.WithContext(ctx).
		Where("uuid = ? AND status = ?", uuid, user_status_enum.NORMAL).
		First(&user).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query active user uuid=%s", uuid)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, wrapDBErrorf(err, "query user username=%s", username)
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(uuids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("uuid IN ? AND status = ?", uuids, user_status_enum.NORMAL).
		Find(&users).Error
	if err != nil {
		return nil, wrapDBError(err, "batch query users")
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBErrorf(err, "create user username=%s", user.Username)
	}
	return nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, uuid string, status int8) error {
	err := r.db.WithContext(ctx).Model(&model.UserInfo{}).
		Where("uuid = ?", uuid).
		Update("status", status).Error
	if err != nil {
		return wrapDBErrorf(err, "update user status uuid=%s", uuid)
	}
	return nil
}
