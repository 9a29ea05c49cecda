package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errUploadMissing = errors.New("no image was submitted")

// UploadPostImage 为自己的文章上传一张图片。
func (a *API) UploadPostImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	data, err := a.readUpload(c)
	if err != nil {
		a.respondUploadError(c, err)
		return
	}

	record, err := a.images.UploadPostImage(currentActor(c), id, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postImageResponse{ID: record.ID, Image: record.Image})
}

// UploadProfilePicture 替换当前用户的头像。
func (a *API) UploadProfilePicture(c *gin.Context) {
	data, err := a.readUpload(c)
	if err != nil {
		a.respondUploadError(c, err)
		return
	}

	actor := currentActor(c)
	user, err := a.images.UploadProfilePicture(actor, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	a.respondUserDetail(c, http.StatusOK, actor, user.ID)
}

// readUpload 读取 multipart 字段 image，超过上限时只读到上限多一个字节。
func (a *API) readUpload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, errUploadMissing
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	reader := io.Reader(src)
	if a.maxUpload > 0 {
		reader = io.LimitReader(src, a.maxUpload+1)
	}
	return io.ReadAll(reader)
}

func (a *API) respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, errUploadMissing) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondServiceError(c, err)
}
