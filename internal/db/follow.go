package db

import "time"

// Follow 记录一条有向关注关系：FollowerID 关注了 FollowedID。
type Follow struct {
	ID         uint      `gorm:"primaryKey"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// TableName 指定自定义表名。
func (Follow) TableName() string {
	return "follows"
}
