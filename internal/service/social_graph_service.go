package service

import (
	"errors"

	"github.com/socialnet/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialGraphService manages the directed follow relation between users.
type SocialGraphService struct {
	db *gorm.DB
}

// NewSocialGraphService creates a SocialGraphService instance.
func NewSocialGraphService(gdb *gorm.DB) *SocialGraphService {
	return &SocialGraphService{db: gdb}
}

// FollowOrUnfollow toggles whether actor follows target and reports the
// resulting state.
func (s *SocialGraphService) FollowOrUnfollow(actor Actor, targetID uint) (bool, error) {
	if err := Authorize(actor, ActionCreate, nil); err != nil {
		return false, err
	}
	if err := s.ensureUser(targetID); err != nil {
		return false, err
	}
	if targetID == actor.UserID {
		return false, ErrSelfFollow
	}

	following := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("follower_id = ? AND followed_id = ?", actor.UserID, targetID).Delete(&db.Follow{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return nil
		}

		following = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&db.Follow{FollowerID: actor.UserID, FollowedID: targetID}).Error
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

// IsFollowing reports whether followerID follows followedID.
func (s *SocialGraphService) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Following lists the users userID follows, in the order they were followed.
func (s *SocialGraphService) Following(actor Actor, userID uint) ([]db.User, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	var users []db.User
	if err := s.db.Model(&db.User{}).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.id asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Followers lists the users following userID, in the order they followed.
func (s *SocialGraphService) Followers(actor Actor, userID uint) ([]db.User, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	var users []db.User
	if err := s.db.Model(&db.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("follows.id asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SocialGraphService) ensureUser(id uint) error {
	var user db.User
	if err := s.db.Select("id").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
