package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTags 返回全部标签及其使用次数。
func (a *API) ListTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, newTagResponse(tag))
	}
	c.JSON(http.StatusOK, items)
}
