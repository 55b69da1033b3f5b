package model

import "time"

// UserFollow 关注关系：ExplorerId 关注（explore）了 ExploringId
// A 的 exploring 集合 = ExplorerId=A 的所有 ExploringId
// A 的 explorers 集合 = ExploringId=A 的所有 ExplorerId
// 取消关注直接物理删除，方便再次关注时复用唯一索引
type UserFollow struct {
	ID          uint      `gorm:"primarykey"`
	ExplorerId  string    `gorm:"column:explorer_id;uniqueIndex:idx_follow_pair;type:char(20);not null;comment:关注者"`
	ExploringId string    `gorm:"column:exploring_id;uniqueIndex:idx_follow_pair;index;type:char(20);not null;comment:被关注者"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (UserFollow) TableName() string {
	return "user_follow"
}
