package handler

import (
	"time"

	"github.com/socialnet/internal/db"
	"github.com/socialnet/internal/service"
)

// userListResponse is the compact user shape used in collections.
type userListResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture"`
}

// userDetailResponse adds profile and graph fields for single-user reads.
type userDetailResponse struct {
	userListResponse
	Bio           string `json:"bio"`
	IsStaff       bool   `json:"is_staff"`
	FollowedUsers []uint `json:"followed_users"`
}

type postImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

type postResponse struct {
	ID          uint                `json:"id"`
	Owner       uint                `json:"owner"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	ContentHTML string              `json:"content_html"`
	CreatedTime time.Time           `json:"created_time"`
	Tags        []string            `json:"tags"`
	Images      []postImageResponse `json:"images"`
	Published   bool                `json:"published"`
	PublishTime *time.Time          `json:"publish_time"`
	Likes       []uint              `json:"likes"`
	LikesCount  int                 `json:"likes_count"`
	Liked       bool                `json:"liked"`
}

type postListResponse struct {
	Count      int64          `json:"count"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
	Results    []postResponse `json:"results"`
}

type commentaryResponse struct {
	ID          uint      `json:"id"`
	Owner       string    `json:"owner"`
	Post        uint      `json:"post"`
	CreatedTime time.Time `json:"created_time"`
	Content     string    `json:"content"`
}

type tagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"post_count"`
}

func newUserListResponse(user db.User) userListResponse {
	return userListResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
	}
}

func newUserListResponses(users []db.User) []userListResponse {
	items := make([]userListResponse, 0, len(users))
	for _, user := range users {
		items = append(items, newUserListResponse(user))
	}
	return items
}

func newUserDetailResponse(user db.User, followed []uint) userDetailResponse {
	if followed == nil {
		followed = []uint{}
	}
	return userDetailResponse{
		userListResponse: newUserListResponse(user),
		Bio:              user.Bio,
		IsStaff:          user.IsStaff,
		FollowedUsers:    followed,
	}
}

func newPostResponse(post db.Post, viewerID uint) postResponse {
	images := make([]postImageResponse, 0, len(post.Images))
	for _, image := range post.Images {
		images = append(images, postImageResponse{ID: image.ID, Image: image.Image})
	}
	likes := make([]uint, 0, len(post.Likes))
	for _, like := range post.Likes {
		likes = append(likes, like.UserID)
	}

	return postResponse{
		ID:          post.ID,
		Owner:       post.UserID,
		Title:       post.Title,
		Content:     post.Content,
		ContentHTML: service.RenderMarkdown(post.Content),
		CreatedTime: post.CreatedAt,
		Tags:        post.TagNames(),
		Images:      images,
		Published:   post.Published,
		PublishTime: post.PublishTime,
		Likes:       likes,
		LikesCount:  len(likes),
		Liked:       post.LikedBy(viewerID),
	}
}

func newPostResponses(posts []db.Post, viewerID uint) []postResponse {
	items := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, newPostResponse(post, viewerID))
	}
	return items
}

func newCommentaryResponse(comment db.Commentary) commentaryResponse {
	return commentaryResponse{
		ID:          comment.ID,
		Owner:       comment.User.Email,
		Post:        comment.PostID,
		CreatedTime: comment.CreatedAt,
		Content:     comment.Content,
	}
}

func newTagResponse(tag db.Tag) tagResponse {
	return tagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, PostCount: tag.PostCount}
}
