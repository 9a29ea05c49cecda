package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/auth"
	"github.com/socialnet/internal/config"
	"github.com/socialnet/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: int(cfg.RefreshTokenTTL.Seconds()), HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("socialnet_session", store))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	api := handler.NewAPI(gdb, tokens, cfg.UploadDir, cfg.UploadURLPath, cfg.MaxUploadBytes)
	r.Use(auth.Identify(tokens, api.Users()))

	// 上传文件静态服务
	uploadPath := "/" + strings.Trim(cfg.UploadURLPath, "/")
	if uploadPath == "/" {
		uploadPath = "/uploads"
	}
	r.Static(uploadPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api")
	{
		public.POST("/users/register", api.Register)
		public.POST("/token", api.ObtainToken)
		public.POST("/token/refresh", api.RefreshToken)
		public.POST("/token/verify", api.VerifyToken)
		public.POST("/login", api.Login)
		public.POST("/logout", api.Logout)
	}

	// 需要认证的路由
	private := r.Group("/api")
	private.Use(auth.RequireIdentity())
	{
		private.GET("/me", api.Me)
		private.PUT("/me", api.ReplaceMe)
		private.PATCH("/me", api.PatchMe)
		private.DELETE("/me", api.DeleteMe)
		private.GET("/me/posts", api.MyPosts)
		private.GET("/me/liked-posts", api.MyLikedPosts)
		private.POST("/me/upload-image", api.UploadProfilePicture)

		private.GET("/users", api.ListUsers)
		private.GET("/users/:id", api.GetUser)
		private.PUT("/users/:id", api.ReplaceUser)
		private.PATCH("/users/:id", api.PatchUser)
		private.DELETE("/users/:id", api.DeleteUser)
		private.POST("/users/:id/follow-unfollow", api.FollowUnfollow)
		private.GET("/users/:id/followings", api.ListFollowings)
		private.GET("/users/:id/followers", api.ListFollowers)
		private.GET("/users/:id/posts", api.ListUserPosts)

		private.GET("/posts", api.ListPosts)
		private.POST("/posts", api.CreatePost)
		private.GET("/posts/:id", api.GetPost)
		private.PUT("/posts/:id", api.ReplacePost)
		private.PATCH("/posts/:id", api.PatchPost)
		private.DELETE("/posts/:id", api.DeletePost)
		private.POST("/posts/:id/like-unlike", api.LikeUnlike)
		private.POST("/posts/:id/upload-image", api.UploadPostImage)

		private.GET("/commentaries", api.ListCommentaries)
		private.POST("/commentaries", api.CreateCommentary)
		private.GET("/commentaries/:id", api.GetCommentary)
		private.PUT("/commentaries/:id", api.UpdateCommentary)
		private.PATCH("/commentaries/:id", api.UpdateCommentary)
		private.DELETE("/commentaries/:id", api.DeleteCommentary)

		private.GET("/tags", api.ListTags)
	}

	return r
}
