package service

import (
	"errors"

	"github.com/socialnet/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementService handles likes and comments on posts.
type EngagementService struct {
	db    *gorm.DB
	posts *PostService
}

// NewEngagementService creates an EngagementService instance.
func NewEngagementService(gdb *gorm.DB, posts *PostService) *EngagementService {
	if posts == nil {
		posts = NewPostService(gdb, nil)
	}
	return &EngagementService{db: gdb, posts: posts}
}

// ToggleLike likes the post when the actor has not liked it yet and unlikes
// it otherwise. It returns the post as stored after the toggle.
func (s *EngagementService) ToggleLike(actor Actor, postID uint) (*db.Post, bool, error) {
	post, err := s.posts.GetVisible(actor, postID)
	if err != nil {
		return nil, false, err
	}

	liked := false
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("post_id = ? AND user_id = ?", post.ID, actor.UserID).Delete(&db.PostLike{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&db.PostLike{PostID: post.ID, UserID: actor.UserID}).Error
	}); err != nil {
		return nil, false, err
	}

	refreshed, err := s.posts.find(post.ID)
	if err != nil {
		return nil, false, err
	}
	return refreshed, liked, nil
}

// AddComment attaches a comment owned by the actor to a post it can see.
func (s *EngagementService) AddComment(actor Actor, postID uint, body string) (*db.Commentary, error) {
	if err := Authorize(actor, ActionCreate, nil); err != nil {
		return nil, err
	}
	if postID == 0 {
		return nil, ErrPostIDRequired
	}
	content := sanitizePlain(body)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if _, err := s.posts.GetVisible(actor, postID); err != nil {
		return nil, err
	}

	comment := db.Commentary{UserID: actor.UserID, PostID: postID, Content: content}
	if err := s.db.Omit("User", "Post").Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.findComment(comment.ID)
}

// ListComments returns the comments of a post, newest first.
func (s *EngagementService) ListComments(actor Actor, postID uint) ([]db.Commentary, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	if postID == 0 {
		return nil, ErrPostIDRequired
	}
	if _, err := s.posts.GetVisible(actor, postID); err != nil {
		return nil, err
	}

	var comments []db.Commentary
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at desc, id desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetComment fetches a single comment on a post visible to the actor.
func (s *EngagementService) GetComment(actor Actor, id uint) (*db.Commentary, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetVisible(actor, comment.PostID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrCommentaryNotFound
		}
		return nil, err
	}
	return comment, nil
}

// UpdateComment replaces the body of a comment owned by the actor.
func (s *EngagementService) UpdateComment(actor Actor, id uint, body string) (*db.Commentary, error) {
	if err := Authorize(actor, ActionUpdate, nil); err != nil {
		return nil, err
	}
	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdate, comment); err != nil {
		return nil, err
	}

	content := sanitizePlain(body)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if err := s.db.Model(&db.Commentary{}).Where("id = ?", comment.ID).Update("content", content).Error; err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment removes a comment owned by the actor.
func (s *EngagementService) DeleteComment(actor Actor, id uint) error {
	if err := Authorize(actor, ActionDelete, nil); err != nil {
		return err
	}
	comment, err := s.findComment(id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, comment); err != nil {
		return err
	}
	return s.db.Delete(&db.Commentary{}, comment.ID).Error
}

func (s *EngagementService) findComment(id uint) (*db.Commentary, error) {
	var comment db.Commentary
	if err := s.db.Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentaryNotFound
		}
		return nil, err
	}
	return &comment, nil
}
