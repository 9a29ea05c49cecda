package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentaryRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListCommentaries 返回 post_id 指定文章的评论，最新的在前。
func (a *API) ListCommentaries(c *gin.Context) {
	comments, err := a.engagement.ListComments(currentActor(c), parseUintQuery(c, "post_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]commentaryResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, newCommentaryResponse(comment))
	}
	c.JSON(http.StatusOK, items)
}

// CreateCommentary 在 post_id 指定的文章下发表评论。
func (a *API) CreateCommentary(c *gin.Context) {
	var req commentaryRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := a.engagement.AddComment(currentActor(c), parseUintQuery(c, "post_id"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentaryResponse(*comment))
}

// GetCommentary returns a single comment.
func (a *API) GetCommentary(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	comment, err := a.engagement.GetComment(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentaryResponse(*comment))
}

// UpdateCommentary replaces the comment body; PUT and PATCH behave the same.
func (a *API) UpdateCommentary(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req commentaryRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := a.engagement.UpdateComment(currentActor(c), id, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentaryResponse(*comment))
}

// DeleteCommentary 删除评论，仅限作者。
func (a *API) DeleteCommentary(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.engagement.DeleteComment(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
