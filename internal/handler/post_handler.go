package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/service"
)

// postWriteRequest is the full representation accepted by create and PUT.
type postWriteRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Content     string     `json:"content" binding:"required"`
	Published   bool       `json:"published"`
	PublishTime *time.Time `json:"publish_time"`
	Tags        []string   `json:"tags"`
}

type postPatchRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Content     *string    `json:"content"`
	Published   *bool      `json:"published"`
	PublishTime *time.Time `json:"publish_time"`
	Tags        *[]string  `json:"tags"`
}

func (r postWriteRequest) input() service.PostInput {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return service.PostInput{
		Title:       &r.Title,
		Content:     &r.Content,
		Published:   &r.Published,
		PublishTime: r.PublishTime,
		Tags:        &tags,
		ReplaceAll:  true,
	}
}

// ListPosts 返回当前用户可见的文章流，支持按 tag_slug 过滤和分页。
func (a *API) ListPosts(c *gin.Context) {
	actor := currentActor(c)
	result, err := a.posts.VisiblePosts(actor, service.PostFilter{
		TagSlugs: c.QueryArray("tag_slug"),
		Page:     parsePositiveInt(c.Query("page")),
		PerPage:  parsePositiveInt(c.Query("per_page")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, postListResponse{
		Count:      result.Total,
		Page:       result.Page,
		PerPage:    result.PerPage,
		TotalPages: result.TotalPages,
		Results:    newPostResponses(result.Posts, actor.UserID),
	})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	actor := currentActor(c)
	post, err := a.posts.GetVisible(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*post, actor.UserID))
}

// CreatePost 创建新文章，作者始终是当前用户。
func (a *API) CreatePost(c *gin.Context) {
	var req postWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := currentActor(c)
	post, err := a.posts.Create(actor, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(*post, actor.UserID))
}

// ReplacePost handles PUT on a post.
func (a *API) ReplacePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req postWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	a.updatePost(c, id, req.input())
}

// PatchPost handles PATCH on a post.
func (a *API) PatchPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req postPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	a.updatePost(c, id, service.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		Published:   req.Published,
		PublishTime: req.PublishTime,
		Tags:        req.Tags,
	})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.posts.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LikeUnlike 切换点赞状态并返回切换后的文章。
func (a *API) LikeUnlike(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	actor := currentActor(c)
	post, _, err := a.engagement.ToggleLike(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*post, actor.UserID))
}

func (a *API) updatePost(c *gin.Context, id uint, input service.PostInput) {
	actor := currentActor(c)
	post, err := a.posts.Update(actor, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*post, actor.UserID))
}
