package db

import "time"

// Post 定义了动态模型。CreatedAt 只在创建时写入。
type Post struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"not null;index"`
	User        User        `gorm:"constraint:OnDelete:CASCADE"`
	Title       string      `gorm:"size:255;not null"`
	Content     string      `gorm:"not null"`
	Published   bool        `gorm:"not null;default:false;index"`
	PublishTime *time.Time  `gorm:"index"`
	Tags        []Tag       `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	Images      []PostImage `gorm:"constraint:OnDelete:CASCADE"`
	Likes       []PostLike  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `gorm:"<-:create;index"`
	UpdatedAt   time.Time
}

// OwnerKey 返回文章作者的用户 ID。
func (p Post) OwnerKey() uint {
	return p.UserID
}

// LikedBy reports whether the preloaded likes contain userID.
func (p Post) LikedBy(userID uint) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// TagNames 返回已预加载标签的名称列表。
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// PostImage 保存文章附图在外部存储中的引用。
type PostImage struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	Image     string `gorm:"not null"`
	CreatedAt time.Time
}

// PostLike 记录用户对文章的点赞，同一用户对同一文章至多一条。
type PostLike struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;index;uniqueIndex:idx_post_likes_pair"`
	UserID    uint `gorm:"not null;index;uniqueIndex:idx_post_likes_pair"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (PostLike) TableName() string {
	return "post_likes"
}
