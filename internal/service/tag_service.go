package service

import (
	"strings"

	"github.com/socialnet/internal/db"
	"gorm.io/gorm"
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags with the number of posts using them, most used first.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.
		Model(&db.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("post_count desc").
		Order("tags.slug asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Resolve 将标签名称转换为已存在或新建的标签，按 slug 去重并保持输入顺序。
func (s *TagService) Resolve(tx *gorm.DB, names []string) ([]db.Tag, error) {
	if tx == nil {
		tx = s.db
	}

	tags := make([]db.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		slug := Slugify(name)
		if slug == "" {
			return nil, ErrTagInvalid
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}

		var tag db.Tag
		if err := tx.Where(db.Tag{Slug: slug}).
			Attrs(db.Tag{Name: name}).
			FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// NormalizeSlugs slugifies query values and drops empty ones.
func NormalizeSlugs(values []string) []string {
	slugs := make([]string, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if slug := Slugify(part); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}
