package db

import "time"

// Commentary 定义文章评论模型
type Commentary struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	PostID    uint      `gorm:"not null;index"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"<-:create;index"`
	UpdatedAt time.Time
}

// TableName 指定自定义表名，避免自动复数化成 commentarys。
func (Commentary) TableName() string {
	return "commentaries"
}

// OwnerKey 返回评论作者的用户 ID。
func (c Commentary) OwnerKey() uint {
	return c.UserID
}
