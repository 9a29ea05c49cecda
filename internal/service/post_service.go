package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/socialnet/internal/db"
	"gorm.io/gorm"
)

const (
	maxTitleLength  = 255
	defaultPerPage  = 20
	maxPerPage      = 100
	postOrderClause = "posts.created_at desc, posts.id desc"
)

// PostService implements the feed and post ownership rules.
type PostService struct {
	db   *gorm.DB
	tags *TagService
}

// PostFilter describes filters for listing the feed.
type PostFilter struct {
	TagSlugs []string
	Page     int
	PerPage  int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PostInput represents fields accepted when creating or updating a post.
// On update nil fields keep their stored value.
type PostInput struct {
	Title       *string
	Content     *string
	Published   *bool
	PublishTime *time.Time
	Tags        *[]string
	// ReplaceAll treats nil PublishTime as "unset" instead of "unchanged".
	ReplaceAll bool
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, tags *TagService) *PostService {
	if tags == nil {
		tags = NewTagService(gdb)
	}
	return &PostService{db: gdb, tags: tags}
}

// VisiblePosts returns published posts owned by the viewer or by users the
// viewer follows, newest first. Tag slugs narrow the result (any tag
// matches) without widening visibility.
func (s *PostService) VisiblePosts(actor Actor, filter PostFilter) (*PostListResult, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}

	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, defaultPerPage),
	}

	scopes := []func(*gorm.DB) *gorm.DB{s.visibleTo(actor.UserID)}
	if slugs := NormalizeSlugs(filter.TagSlugs); len(slugs) > 0 {
		scopes = append(scopes, s.taggedWithAny(slugs))
	}

	if err := s.db.Model(&db.Post{}).Scopes(scopes...).Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := preloadPost(s.db.Model(&db.Post{})).
		Scopes(scopes...).
		Order(postOrderClause).
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// GetVisible fetches a post the actor may read: a visible feed post or one
// of the actor's own posts, published or not.
func (s *PostService) GetVisible(actor Actor, id uint) (*db.Post, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}

	visible, err := s.canView(actor.UserID, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListOwn returns all of the actor's posts, including scheduled ones.
func (s *PostService) ListOwn(actor Actor) ([]db.Post, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	var posts []db.Post
	if err := preloadPost(s.db.Model(&db.Post{})).
		Where("posts.user_id = ?", actor.UserID).
		Order(postOrderClause).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublishedByUser returns the published posts of one user.
func (s *PostService) ListPublishedByUser(actor Actor, userID uint) ([]db.Post, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Model(&db.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	var posts []db.Post
	if err := preloadPost(s.db.Model(&db.Post{})).
		Where("posts.user_id = ? AND posts.published = ?", userID, true).
		Order(postOrderClause).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListLikedBy returns the posts the actor liked, newest first.
func (s *PostService) ListLikedBy(actor Actor) ([]db.Post, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	liked := s.db.Model(&db.PostLike{}).Select("post_id").Where("user_id = ?", actor.UserID)

	var posts []db.Post
	if err := preloadPost(s.db.Model(&db.Post{})).
		Where("posts.id IN (?)", liked).
		Order(postOrderClause).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create persists a post owned by the actor and associates tags in a transaction.
func (s *PostService) Create(actor Actor, input PostInput) (*db.Post, error) {
	if err := Authorize(actor, ActionCreate, nil); err != nil {
		return nil, err
	}

	post := db.Post{UserID: actor.UserID}
	applyPostInput(&post, input)
	if err := validatePost(&post); err != nil {
		return nil, err
	}

	var tagNames []string
	if input.Tags != nil {
		tagNames = *input.Tags
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Images", "Likes", "User").Create(&post).Error; err != nil {
			return err
		}
		return s.replaceTags(tx, &post, tagNames)
	}); err != nil {
		return nil, err
	}

	return s.find(post.ID)
}

// Update applies changes to a post owned by the actor.
func (s *PostService) Update(actor Actor, id uint, input PostInput) (*db.Post, error) {
	if err := Authorize(actor, ActionUpdate, nil); err != nil {
		return nil, err
	}
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdate, post); err != nil {
		return nil, err
	}

	applyPostInput(post, input)
	if err := validatePost(post); err != nil {
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).
			Where("id = ?", post.ID).
			Select("title", "content", "published", "publish_time", "updated_at").
			Updates(map[string]interface{}{
				"title":        post.Title,
				"content":      post.Content,
				"published":    post.Published,
				"publish_time": post.PublishTime,
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}
		if input.Tags == nil {
			return nil
		}
		return s.replaceTags(tx, post, *input.Tags)
	}); err != nil {
		return nil, err
	}

	return s.find(post.ID)
}

// Delete removes a post owned by the actor together with its images,
// likes, tag links and comments.
func (s *PostService) Delete(actor Actor, id uint) error {
	if err := Authorize(actor, ActionDelete, nil); err != nil {
		return err
	}
	post, err := s.find(id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, post); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return deletePostRows(tx, []uint{post.ID})
	})
}

// GetOwned fetches a post for a write by the actor: 404 when missing, 403
// when someone else owns it.
func (s *PostService) GetOwned(actor Actor, id uint) (*db.Post, error) {
	if err := Authorize(actor, ActionUpdate, nil); err != nil {
		return nil, err
	}
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdate, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) visibleTo(viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		followed := s.db.Model(&db.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)
		return query.
			Where("posts.published = ?", true).
			Where("posts.user_id = ? OR posts.user_id IN (?)", viewerID, followed)
	}
}

func (s *PostService) taggedWithAny(slugs []string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		tagged := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug IN ?", slugs)
		return query.Where("posts.id IN (?)", tagged)
	}
}

func (s *PostService) canView(viewerID uint, post *db.Post) (bool, error) {
	if post.UserID == viewerID {
		return true, nil
	}
	if !post.Published {
		return false, nil
	}
	var count int64
	if err := s.db.Model(&db.Follow{}).
		Where("follower_id = ? AND followed_id = ?", viewerID, post.UserID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostService) find(id uint) (*db.Post, error) {
	var post db.Post
	if err := preloadPost(s.db.Model(&db.Post{})).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) replaceTags(tx *gorm.DB, post *db.Post, names []string) error {
	tags, err := s.tags.Resolve(tx, names)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return tx.Model(post).Association("Tags").Clear()
	}
	return tx.Model(post).Association("Tags").Replace(tags)
}

func preloadPost(query *gorm.DB) *gorm.DB {
	return query.
		Preload("User").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.slug asc") }).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("post_images.id asc") }).
		Preload("Likes", func(tx *gorm.DB) *gorm.DB { return tx.Order("post_likes.id asc") })
}

func applyPostInput(post *db.Post, input PostInput) {
	if input.Title != nil {
		post.Title = sanitizePlain(*input.Title)
	}
	if input.Content != nil {
		post.Content = strings.TrimSpace(*input.Content)
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	if input.PublishTime != nil {
		publishTime := input.PublishTime.UTC()
		post.PublishTime = &publishTime
	} else if input.ReplaceAll {
		post.PublishTime = nil
	}
}

func validatePost(post *db.Post) error {
	if post.Title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(post.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if post.Content == "" {
		return ErrContentRequired
	}
	if !post.Published && post.PublishTime == nil {
		return ErrPublishTimeRequired
	}
	return nil
}

// deletePostRows removes posts and every row hanging off them.
func deletePostRows(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&db.Commentary{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&db.PostLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&db.PostImage{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_tags WHERE post_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&db.Post{}).Error
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
