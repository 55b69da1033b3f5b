package repository

import (
	"context"

	"wanderlog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository 创建关注关系 Repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create 依赖 (explorer_id, exploring_id) 唯一索引，重复关注直接忽略
func (r *followRepository) Create(ctx context.Context, explorerId, exploringId string) error {
	follow := model.UserFollow{ExplorerId: explorerId, ExploringId: exploringId}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	if err != nil {
		return wrapDBErrorf(err, "create follow %s -> %s", explorerId, exploringId)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, explorerId, exploringId string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("explorer_id = ? AND exploring_id = ?", explorerId, exploringId).
		Delete(&model.UserFollow{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "delete follow %s -> %s", explorerId, exploringId)
	}
	return result.RowsAffected, nil
}

func (r *followRepository) Exists(ctx context.Context, explorerId, exploringId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("explorer_id = ? AND exploring_id = ?", explorerId, exploringId).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "query follow %s -> %s", explorerId, exploringId)
	}
	return count > 0, nil
}

func (r *followRepository) FindExploringIds(ctx context.Context, userId string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("explorer_id = ?", userId).
		Pluck("exploring_id", &ids).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query exploring of %s", userId)
	}
	return ids, nil
}

func (r *followRepository) FindExplorerIds(ctx context.Context, userId string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("exploring_id = ?", userId).
		Pluck("explorer_id", &ids).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query explorers of %s", userId)
	}
	return ids, nil
}
