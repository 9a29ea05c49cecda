package db

import "time"

// Tag 定义了全局共享的标签模型
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Slug      string `gorm:"size:100;uniqueIndex;not null"`
	Posts     []Post `gorm:"many2many:post_tags;"`
	PostCount int64  `gorm:"->;-:migration"`
	CreatedAt time.Time
}
