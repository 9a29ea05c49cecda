package service

import (
	"bytes"
	"image"
	"log"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/socialnet/internal/db"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
	"tiff": ".tiff",
}

// ImageService validates uploads and records their storage references.
type ImageService struct {
	db       *gorm.DB
	posts    *PostService
	users    *UserService
	store    ImageStore
	maxBytes int64
}

// NewImageService creates an ImageService. maxBytes <= 0 disables the size check.
func NewImageService(gdb *gorm.DB, posts *PostService, users *UserService, store ImageStore, maxBytes int64) *ImageService {
	return &ImageService{db: gdb, posts: posts, users: users, store: store, maxBytes: maxBytes}
}

// UploadPostImage stores an image for a post owned by the actor.
func (s *ImageService) UploadPostImage(actor Actor, postID uint, data []byte) (*db.PostImage, error) {
	post, err := s.posts.GetOwned(actor, postID)
	if err != nil {
		return nil, err
	}
	ext, err := s.validate(data)
	if err != nil {
		return nil, err
	}

	reference, err := s.store.Save("posts", post.Title, ext, data)
	if err != nil {
		return nil, err
	}

	record := db.PostImage{PostID: post.ID, Image: reference}
	if err := s.db.Create(&record).Error; err != nil {
		s.discard(reference)
		return nil, err
	}
	return &record, nil
}

// UploadProfilePicture replaces the actor's profile picture.
func (s *ImageService) UploadProfilePicture(actor Actor, data []byte) (*db.User, error) {
	if err := Authorize(actor, ActionUpdate, nil); err != nil {
		return nil, err
	}
	user, err := s.users.find(actor.UserID)
	if err != nil {
		return nil, err
	}
	ext, err := s.validate(data)
	if err != nil {
		return nil, err
	}

	reference, err := s.store.Save("users", user.FullName(), ext, data)
	if err != nil {
		return nil, err
	}

	previous := user.ProfilePicture
	updated, err := s.users.SetProfilePicture(user.ID, reference)
	if err != nil {
		s.discard(reference)
		return nil, err
	}
	if previous != "" {
		s.discard(previous)
	}
	return updated, nil
}

// validate 检查负载能否被解码为受支持的图片格式，并返回对应扩展名。
func (s *ImageService) validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidImage
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return "", ErrInvalidImage
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return "", ErrInvalidImage
	}
	return ext, nil
}

func (s *ImageService) discard(reference string) {
	if err := s.store.Remove(reference); err != nil {
		log.Printf("[ERROR] failed to remove image %s: %v", reference, err)
	}
}
