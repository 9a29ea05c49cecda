package service

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Keeps <slug>-<uuid><ext> well under the usual 255 byte NAME_MAX.
const maxFileSlugBytes = 100

// ImageStore persists validated image bytes and hands back a stable reference.
type ImageStore interface {
	Save(kind, baseName, ext string, data []byte) (string, error)
	Remove(reference string) error
}

// LocalImageStore writes images below dir and references them by URL path.
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

// NewLocalImageStore creates a store rooted at dir, served under urlPrefix.
func NewLocalImageStore(dir, urlPrefix string) *LocalImageStore {
	prefix := "/" + strings.Trim(strings.TrimSpace(urlPrefix), "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	return &LocalImageStore{dir: dir, urlPrefix: prefix}
}

// Save 生成 <slug>-<uuid><ext> 形式的文件名并写入 <dir>/<kind>/ 目录。
func (s *LocalImageStore) Save(kind, baseName, ext string, data []byte) (string, error) {
	kind = Slugify(kind)
	if kind == "" {
		return "", errors.New("image kind is required")
	}

	targetDir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if slug := truncateSlug(Slugify(baseName), maxFileSlugBytes); slug != "" {
		name = slug + "-" + name
	}

	if err := os.WriteFile(filepath.Join(targetDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(s.urlPrefix, kind, name), nil
}

// Remove deletes a file previously returned by Save. Unknown references and
// already missing files are ignored.
func (s *LocalImageStore) Remove(reference string) error {
	rel := strings.TrimPrefix(reference, s.urlPrefix+"/")
	if rel == reference || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// truncateSlug cuts slug to at most limit bytes on a rune boundary.
func truncateSlug(slug string, limit int) string {
	if len(slug) <= limit {
		return slug
	}
	cut := 0
	for i := range slug {
		if i > limit {
			break
		}
		cut = i
	}
	return strings.TrimRight(slug[:cut], "-")
}
