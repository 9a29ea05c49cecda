package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=5"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio"`
}

// userPutRequest replaces the editable profile; email is mandatory.
type userPutRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  *string `json:"password" binding:"omitempty,min=5"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Bio       string  `json:"bio"`
}

type userPatchRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=5"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

// Register 创建新账号，无需认证。
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserDetailResponse(*user, nil))
}

// ListUsers 按名字片段搜索用户。
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.users.Search(currentActor(c), service.UserFilter{
		Name:      c.Query("name"),
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserListResponses(users))
}

// GetUser 返回单个用户详情。
func (a *API) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a.respondUserDetail(c, http.StatusOK, currentActor(c), id)
}

// Me returns the acting user.
func (a *API) Me(c *gin.Context) {
	actor := currentActor(c)
	a.respondUserDetail(c, http.StatusOK, actor, actor.UserID)
}

// ReplaceUser handles PUT on a user.
func (a *API) ReplaceUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a.replaceUser(c, id)
}

// ReplaceMe handles PUT /api/me.
func (a *API) ReplaceMe(c *gin.Context) {
	a.replaceUser(c, currentActor(c).UserID)
}

// PatchUser handles PATCH on a user.
func (a *API) PatchUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a.patchUser(c, id)
}

// PatchMe handles PATCH /api/me.
func (a *API) PatchMe(c *gin.Context) {
	a.patchUser(c, currentActor(c).UserID)
}

// DeleteUser 删除账号及其全部内容，仅限本人。
func (a *API) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a.deleteUser(c, id)
}

// DeleteMe deletes the acting user.
func (a *API) DeleteMe(c *gin.Context) {
	a.deleteUser(c, currentActor(c).UserID)
}

// FollowUnfollow 切换当前用户对目标用户的关注状态。
func (a *API) FollowUnfollow(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := a.graph.FollowOrUnfollow(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListFollowings 返回用户关注的人。
func (a *API) ListFollowings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	users, err := a.graph.Following(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserListResponses(users))
}

// ListFollowers 返回关注该用户的人。
func (a *API) ListFollowers(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	users, err := a.graph.Followers(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserListResponses(users))
}

// ListUserPosts 返回用户已发布的文章。
func (a *API) ListUserPosts(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	actor := currentActor(c)
	posts, err := a.posts.ListPublishedByUser(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(posts, actor.UserID))
}

// MyPosts returns every post of the acting user, scheduled ones included.
func (a *API) MyPosts(c *gin.Context) {
	actor := currentActor(c)
	posts, err := a.posts.ListOwn(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(posts, actor.UserID))
}

// MyLikedPosts returns the posts the acting user liked.
func (a *API) MyLikedPosts(c *gin.Context) {
	actor := currentActor(c)
	posts, err := a.posts.ListLikedBy(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(posts, actor.UserID))
}

func (a *API) replaceUser(c *gin.Context, id uint) {
	var req userPutRequest
	if !bindJSON(c, &req) {
		return
	}
	a.applyUserUpdate(c, id, service.UserUpdate{
		Email:     &req.Email,
		Password:  req.Password,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Bio:       &req.Bio,
	})
}

func (a *API) patchUser(c *gin.Context, id uint) {
	var req userPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	a.applyUserUpdate(c, id, service.UserUpdate{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
}

func (a *API) applyUserUpdate(c *gin.Context, id uint, update service.UserUpdate) {
	user, err := a.users.Update(currentActor(c), id, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	a.respondUserDetail(c, http.StatusOK, currentActor(c), user.ID)
}

func (a *API) deleteUser(c *gin.Context, id uint) {
	if err := a.users.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) respondUserDetail(c *gin.Context, status int, actor service.Actor, id uint) {
	user, err := a.users.Get(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	followed, err := a.users.FollowedIDs(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(status, newUserDetailResponse(*user, followed))
}
