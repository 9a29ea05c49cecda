package handler

import (
	"github.com/socialnet/internal/auth"
	"github.com/socialnet/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	users      *service.UserService
	graph      *service.SocialGraphService
	posts      *service.PostService
	tags       *service.TagService
	engagement *service.EngagementService
	images     *service.ImageService
	tokens     *auth.TokenIssuer
	maxUpload  int64
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *auth.TokenIssuer, uploadDir, uploadURL string, maxUpload int64) *API {
	tagService := service.NewTagService(gdb)
	userService := service.NewUserService(gdb)
	postService := service.NewPostService(gdb, tagService)
	store := service.NewLocalImageStore(uploadDir, uploadURL)

	return &API{
		db:         gdb,
		users:      userService,
		graph:      service.NewSocialGraphService(gdb),
		posts:      postService,
		tags:       tagService,
		engagement: service.NewEngagementService(gdb, postService),
		images:     service.NewImageService(gdb, postService, userService, store, maxUpload),
		tokens:     tokens,
		maxUpload:  maxUpload,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Users exposes the user service for identity resolution.
func (a *API) Users() *service.UserService {
	return a.users
}
