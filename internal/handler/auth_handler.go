package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/auth"
	"github.com/socialnet/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// ObtainToken 校验邮箱和密码，返回 access/refresh 令牌对。
func (a *API) ObtainToken(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pair, err := a.tokens.IssuePair(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// RefreshToken 用 refresh 令牌换取新的 access 令牌。
func (a *API) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := a.tokens.Refresh(req.Refresh)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// VerifyToken reports whether a token of either kind is still valid.
func (a *API) VerifyToken(c *gin.Context) {
	var req verifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := a.tokens.Parse(req.Token, ""); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Login 校验凭据并写入会话。
func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := auth.Login(c, user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}
	a.respondUserDetail(c, http.StatusOK, service.Actor{UserID: user.ID}, user.ID)
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

func currentActor(c *gin.Context) service.Actor {
	return auth.CurrentActor(c)
}
